package app

import (
	"context"
	"strings"
	"sync"

	"direct_chat_service/internal/chat/domain"
	"direct_chat_service/internal/chat/repository"
	errprocess "direct_chat_service/pkg/err"
	"direct_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// Subscription 一條房間訂閱, Close 可重複呼叫
type Subscription struct {
	once    sync.Once
	cancel  context.CancelFunc
	release func()
}

// Close 停止快照推送並釋放訂閱
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cancel()
		if s.release != nil {
			s.release()
		}
	})
}

// MessageUseCase definition message use case
type MessageUseCase interface {
	Send(ctx context.Context, roomID string, sender domain.Sender, text string) (*domain.ChatMessage, error)
	History(ctx context.Context, roomID string) ([]domain.ChatMessage, error)
	Subscribe(ctx context.Context, roomID string, handler func(msgs []domain.ChatMessage, err error)) (*Subscription, error)
}

type messageUseCase struct {
	roomRepo    repository.RoomRepository
	messageRepo repository.MessageRepository
	notifier    repository.Notifier
}

// NewMessageUseCase init message use case
func NewMessageUseCase(roomRepo repository.RoomRepository, messageRepo repository.MessageRepository, notifier repository.Notifier) MessageUseCase {
	return &messageUseCase{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

// Send 訊息落地後才更新房間摘要, 摘要失敗不回滾訊息
func (uc *messageUseCase) Send(ctx context.Context, roomID string, sender domain.Sender, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errprocess.Set("message text is empty")
	}

	if roomID != domain.GeneralRoomID {
		room, err := uc.roomRepo.FindByID(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return nil, errprocess.Set("room not found: " + roomID)
		}
	}

	msg := &domain.ChatMessage{
		RoomID:       roomID,
		SenderID:     sender.UID,
		SenderName:   sender.DisplayName,
		SenderAvatar: sender.AvatarURL,
		Text:         text,
		Type:         domain.MessageTypeText,
	}
	if err := uc.messageRepo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}

	if roomID != domain.GeneralRoomID {
		last := domain.LastMessage{
			ID:         msg.ID,
			Text:       msg.Text,
			SenderID:   msg.SenderID,
			SenderName: msg.SenderName,
			Timestamp:  msg.Timestamp,
			Type:       msg.Type,
		}
		if err := uc.roomRepo.UpdateSummary(ctx, roomID, last); err != nil {
			logger.Log.Warn("room summary update failed", zap.String("room_id", roomID), zap.Error(err))
		}
	}

	if err := uc.notifier.Publish(repository.RoomChannel(roomID), msg); err != nil {
		logger.Log.Warn("room notify failed", zap.String("room_id", roomID), zap.Error(err))
	}
	return msg, nil
}

// History 房間全部訊息, timestamp 升冪
func (uc *messageUseCase) History(ctx context.Context, roomID string) ([]domain.ChatMessage, error) {
	return uc.messageRepo.FindByRoom(ctx, roomID)
}

// Subscribe 訂閱房間, 初始推一次全量快照, 之後每次變更重查再推全量
// 重查失敗以 err 通知, 訂閱本身不中斷
func (uc *messageUseCase) Subscribe(ctx context.Context, roomID string, handler func(msgs []domain.ChatMessage, err error)) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	// buffered 1, 連續事件合併成一次重查
	trigger := make(chan struct{}, 1)
	kick := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	release, err := uc.notifier.Subscribe(subCtx, repository.RoomChannel(roomID), func([]byte) {
		kick()
	})
	if err != nil {
		cancel()
		return nil, err
	}

	go func() {
		for {
			msgs, err := uc.messageRepo.FindByRoom(subCtx, roomID)
			if subCtx.Err() != nil {
				return
			}
			handler(msgs, err)

			select {
			case <-trigger:
			case <-subCtx.Done():
				return
			}
		}
	}()

	return &Subscription{cancel: cancel, release: release}, nil
}
