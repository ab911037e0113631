package app

import (
	"context"
	"os"
	"testing"

	"direct_chat_service/internal/chat/domain"
	sessiondomain "direct_chat_service/internal/session/domain"
	"direct_chat_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// 測試已存在 1 on 1 房, 不新建
func TestRoomUseCase_FindOrCreateDirectRoom_Existing(t *testing.T) {
	ctx := context.Background()
	selfUID := uuid.New().String()
	otherUID := uuid.New().String()

	mockRoomRepo := new(MockRoomRepository)
	mockProfiles := new(MockProfileDirectory)

	existing := []domain.ChatRoom{
		{ID: "room-other", RoomType: domain.ChatRoomTypeDirect, Participants: []string{selfUID, "someone-else"}},
		// participants 順序與查詢者無關
		{ID: "room-hit", RoomType: domain.ChatRoomTypeDirect, Participants: []string{otherUID, selfUID}},
	}
	mockRoomRepo.On("FindDirectRoomsByMember", ctx, selfUID).Return(existing, nil)

	uc := NewRoomUseCase(mockRoomRepo, mockProfiles)
	room, created, err := uc.FindOrCreateDirectRoom(ctx, selfUID, otherUID)

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "room-hit", room.ID)

	mockRoomRepo.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything)
	mockRoomRepo.AssertExpectations(t)
}

// 測試沒有既有房間時新建
func TestRoomUseCase_FindOrCreateDirectRoom_CreateNew(t *testing.T) {
	ctx := context.Background()
	selfUID := uuid.New().String()
	otherUID := uuid.New().String()

	mockRoomRepo := new(MockRoomRepository)
	mockProfiles := new(MockProfileDirectory)

	mockRoomRepo.On("FindDirectRoomsByMember", ctx, selfUID).Return([]domain.ChatRoom{}, nil)
	mockProfiles.On("FindByID", ctx, selfUID).Return(&sessiondomain.Profile{UID: selfUID, DisplayName: "Alice"}, nil)
	mockProfiles.On("FindByID", ctx, otherUID).Return(&sessiondomain.Profile{UID: otherUID, DisplayName: "Bob"}, nil)
	mockRoomRepo.On("CreateRoom", ctx, mock.Anything).Return(nil)

	uc := NewRoomUseCase(mockRoomRepo, mockProfiles)
	room, created, err := uc.FindOrCreateDirectRoom(ctx, selfUID, otherUID)

	assert.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "Alice & Bob", room.Name)
	assert.Equal(t, domain.ChatRoomTypeDirect, room.RoomType)
	assert.True(t, room.HasParticipant(selfUID))
	assert.True(t, room.HasParticipant(otherUID))
	assert.Equal(t, selfUID, room.CreatedBy)

	mockRoomRepo.AssertExpectations(t)
	mockProfiles.AssertExpectations(t)
}

// 測試與自己開房被拒
func TestRoomUseCase_FindOrCreateDirectRoom_Self(t *testing.T) {
	ctx := context.Background()
	selfUID := uuid.New().String()

	uc := NewRoomUseCase(new(MockRoomRepository), new(MockProfileDirectory))
	room, created, err := uc.FindOrCreateDirectRoom(ctx, selfUID, selfUID)

	assert.Error(t, err)
	assert.False(t, created)
	assert.Nil(t, room)
}

// 測試 email 查詢排除自己
func TestRoomUseCase_SearchByEmail_ExcludesSelf(t *testing.T) {
	ctx := context.Background()
	selfUID := uuid.New().String()
	email := "self@example.com"

	mockProfiles := new(MockProfileDirectory)
	mockProfiles.On("FindByEmail", ctx, email).Return([]sessiondomain.Profile{{UID: selfUID, Email: email}}, nil)

	uc := NewRoomUseCase(new(MockRoomRepository), mockProfiles)
	matches, err := uc.SearchByEmail(ctx, selfUID, email)

	assert.NoError(t, err)
	assert.Nil(t, matches)
	mockProfiles.AssertExpectations(t)
}

// 測試同 email 多個帳號全部回傳, 不只取第一筆
func TestRoomUseCase_SearchByEmail_AllMatches(t *testing.T) {
	ctx := context.Background()
	selfUID := uuid.New().String()
	email := "shared@example.com"

	mockProfiles := new(MockProfileDirectory)
	mockProfiles.On("FindByEmail", ctx, email).Return([]sessiondomain.Profile{
		{UID: "uid-b", Email: email, DisplayName: "Bob"},
		{UID: "uid-c", Email: email, DisplayName: "Carol"},
	}, nil)

	uc := NewRoomUseCase(new(MockRoomRepository), mockProfiles)
	matches, err := uc.SearchByEmail(ctx, selfUID, email)

	assert.NoError(t, err)
	assert.Len(t, matches, 2)
	assert.Equal(t, "uid-b", matches[0].UID)
	assert.Equal(t, "uid-c", matches[1].UID)
}

// 測試查無此人不視為錯誤
func TestRoomUseCase_SearchByEmail_NoMatch(t *testing.T) {
	ctx := context.Background()

	mockProfiles := new(MockProfileDirectory)
	mockProfiles.On("FindByEmail", ctx, "nobody@example.com").Return([]sessiondomain.Profile{}, nil)

	uc := NewRoomUseCase(new(MockRoomRepository), mockProfiles)
	matches, err := uc.SearchByEmail(ctx, uuid.New().String(), "nobody@example.com")

	assert.NoError(t, err)
	assert.Nil(t, matches)
}

// 測試房間清單附上對方名稱, 查不到名稱用預設
func TestRoomUseCase_DirectRoomsFor(t *testing.T) {
	ctx := context.Background()
	selfUID := uuid.New().String()

	mockRoomRepo := new(MockRoomRepository)
	mockProfiles := new(MockProfileDirectory)

	rooms := []domain.ChatRoom{
		{ID: "room-1", RoomType: domain.ChatRoomTypeDirect, Participants: []string{selfUID, "uid-bob"}},
		{ID: "room-2", RoomType: domain.ChatRoomTypeDirect, Participants: []string{"uid-gone", selfUID}},
	}
	mockRoomRepo.On("FindDirectRoomsByMember", ctx, selfUID).Return(rooms, nil)
	mockProfiles.On("FindByID", ctx, "uid-bob").Return(&sessiondomain.Profile{UID: "uid-bob", DisplayName: "Bob"}, nil)
	mockProfiles.On("FindByID", ctx, "uid-gone").Return(nil, nil)

	uc := NewRoomUseCase(mockRoomRepo, mockProfiles)
	views, err := uc.DirectRoomsFor(ctx, selfUID)

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, "Bob", views[0].OtherName)
	assert.Equal(t, "User", views[1].OtherName)

	mockRoomRepo.AssertExpectations(t)
	mockProfiles.AssertExpectations(t)
}
