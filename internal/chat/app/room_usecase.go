package app

import (
	"context"
	"fmt"

	"direct_chat_service/internal/chat/domain"
	"direct_chat_service/internal/chat/repository"
	sessiondomain "direct_chat_service/internal/session/domain"
	errprocess "direct_chat_service/pkg/err"

	"github.com/google/uuid"
)

// ProfileDirectory 查詢會員資料, 由 session 的 profile repository 提供
type ProfileDirectory interface {
	FindByID(ctx context.Context, uid string) (*sessiondomain.Profile, error)
	FindByEmail(ctx context.Context, email string) ([]sessiondomain.Profile, error)
}

// RoomUseCase definition room use case
type RoomUseCase interface {
	FindOrCreateDirectRoom(ctx context.Context, selfUID, otherUID string) (*domain.ChatRoom, bool, error)
	DirectRoomsFor(ctx context.Context, selfUID string) ([]domain.DirectRoomView, error)
	SearchByEmail(ctx context.Context, selfUID, email string) ([]sessiondomain.ProfileSummary, error)
}

type roomUseCase struct {
	roomRepo repository.RoomRepository
	profiles ProfileDirectory
}

// NewRoomUseCase init room use case
func NewRoomUseCase(roomRepo repository.RoomRepository, profiles ProfileDirectory) RoomUseCase {
	return &roomUseCase{
		roomRepo: roomRepo,
		profiles: profiles,
	}
}

// FindOrCreateDirectRoom 先查自己已有的 1 on 1 房, 沒有才建新房
// 回傳 created 表示是否新建; 併發下可能各建一間, 先到者之後會被查到
func (uc *roomUseCase) FindOrCreateDirectRoom(ctx context.Context, selfUID, otherUID string) (*domain.ChatRoom, bool, error) {
	if selfUID == otherUID {
		return nil, false, errprocess.Set("cannot open a direct room with yourself")
	}

	rooms, err := uc.roomRepo.FindDirectRoomsByMember(ctx, selfUID)
	if err != nil {
		return nil, false, err
	}
	for i := range rooms {
		if rooms[i].HasParticipant(otherUID) {
			return &rooms[i], false, nil
		}
	}

	selfName := uc.displayName(ctx, selfUID)
	otherName := uc.displayName(ctx, otherUID)

	room := &domain.ChatRoom{
		ID:           uuid.NewString(),
		Name:         fmt.Sprintf("%s & %s", selfName, otherName),
		RoomType:     domain.ChatRoomTypeDirect,
		Participants: []string{selfUID, otherUID},
		CreatedBy:    selfUID,
	}
	if err := uc.roomRepo.CreateRoom(ctx, room); err != nil {
		return nil, false, err
	}
	return room, true, nil
}

// DirectRoomsFor 房間清單附上對方名稱, 查不到名稱不阻擋列表
func (uc *roomUseCase) DirectRoomsFor(ctx context.Context, selfUID string) ([]domain.DirectRoomView, error) {
	rooms, err := uc.roomRepo.FindDirectRoomsByMember(ctx, selfUID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.DirectRoomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, domain.DirectRoomView{
			ChatRoom:  room,
			OtherName: uc.displayName(ctx, room.OtherParticipant(selfUID)),
		})
	}
	return views, nil
}

// SearchByEmail email 精準比對, 排除自己
// 同 email 可能有多個帳號 (聯合登入開通不查重), 全部回傳; 查無結果回 nil, 不視為錯誤
func (uc *roomUseCase) SearchByEmail(ctx context.Context, selfUID, email string) ([]sessiondomain.ProfileSummary, error) {
	profiles, err := uc.profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var matches []sessiondomain.ProfileSummary
	for i := range profiles {
		if profiles[i].UID == selfUID {
			continue
		}
		matches = append(matches, profiles[i].Summary())
	}
	return matches, nil
}

func (uc *roomUseCase) displayName(ctx context.Context, uid string) string {
	if uid == "" {
		return "User"
	}
	profile, err := uc.profiles.FindByID(ctx, uid)
	if err != nil || profile == nil || profile.DisplayName == "" {
		return "User"
	}
	return profile.DisplayName
}
