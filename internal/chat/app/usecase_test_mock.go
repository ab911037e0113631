package app

import (
	"context"

	"direct_chat_service/internal/chat/domain"
	sessiondomain "direct_chat_service/internal/session/domain"

	"github.com/stretchr/testify/mock"
)

// MockRoomRepository Mock RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

// CreateRoom moke create room
func (m *MockRoomRepository) CreateRoom(ctx context.Context, room *domain.ChatRoom) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

// FindByID moke find room by room id
func (m *MockRoomRepository) FindByID(ctx context.Context, roomID string) (*domain.ChatRoom, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindDirectRoomsByMember moke find direct rooms by member
func (m *MockRoomRepository) FindDirectRoomsByMember(ctx context.Context, uid string) ([]domain.ChatRoom, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatRoom), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateSummary moke update room summary
func (m *MockRoomRepository) UpdateSummary(ctx context.Context, roomID string, last domain.LastMessage) error {
	args := m.Called(ctx, roomID, last)
	return args.Error(0)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// InsertMessage moke insert msg
func (m *MockMessageRepository) InsertMessage(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByRoom moke find msgs by room
func (m *MockMessageRepository) FindByRoom(ctx context.Context, roomID string) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockNotifier Mock Notifier
type MockNotifier struct {
	mock.Mock
}

// Publish moke publisher
func (m *MockNotifier) Publish(channel string, message interface{}) error {
	args := m.Called(channel, message)
	return args.Error(0)
}

// Subscribe moke subscriber
func (m *MockNotifier) Subscribe(ctx context.Context, channel string, handler func(payload []byte)) (func(), error) {
	args := m.Called(channel, handler)
	if args.Get(0) != nil {
		return args.Get(0).(func()), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockProfileDirectory Mock ProfileDirectory
type MockProfileDirectory struct {
	mock.Mock
}

// FindByID moke find profile by uid
func (m *MockProfileDirectory) FindByID(ctx context.Context, uid string) (*sessiondomain.Profile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) != nil {
		return args.Get(0).(*sessiondomain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByEmail moke find profile by email
func (m *MockProfileDirectory) FindByEmail(ctx context.Context, email string) ([]sessiondomain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) != nil {
		return args.Get(0).([]sessiondomain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}
