package app

import (
	"context"
	"io"

	identitydomain "direct_chat_service/internal/identity/domain"
	"direct_chat_service/internal/session/domain"
	"direct_chat_service/pkg/token"

	"github.com/stretchr/testify/mock"
)

// MockIdentityUseCase Mock IdentityUseCase
type MockIdentityUseCase struct {
	mock.Mock
}

// Register moke register account
func (m *MockIdentityUseCase) Register(ctx context.Context, email, password, displayName string) error {
	args := m.Called(ctx, email, password, displayName)
	return args.Error(0)
}

// Login moke login
func (m *MockIdentityUseCase) Login(ctx context.Context, email, password string) (string, *token.Claims, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) != nil {
		return args.String(0), args.Get(1).(*token.Claims), args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

// FederatedLogin moke federated login
func (m *MockIdentityUseCase) FederatedLogin(ctx context.Context, provider, subject, email, displayName, avatarURL string) (string, *token.Claims, error) {
	args := m.Called(ctx, provider, subject, email, displayName, avatarURL)
	if args.Get(1) != nil {
		return args.String(0), args.Get(1).(*token.Claims), args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

// Logout moke logout
func (m *MockIdentityUseCase) Logout(ctx context.Context, t string) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// ParseSession moke parse session token
func (m *MockIdentityUseCase) ParseSession(tokenStr string) (*token.Claims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) != nil {
		return args.Get(0).(*token.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindAccount moke find account
func (m *MockIdentityUseCase) FindAccount(ctx context.Context, param *identitydomain.AccountQuery) (*identitydomain.Account, error) {
	args := m.Called(ctx, param)
	if args.Get(0) != nil {
		return args.Get(0).(*identitydomain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockProfileRepository Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

// EnsureProfile moke ensure profile
func (m *MockProfileRepository) EnsureProfile(ctx context.Context, uid, email, displayName, avatarURL string) (*domain.Profile, error) {
	args := m.Called(ctx, uid, email, displayName, avatarURL)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

// SetOffline moke set offline
func (m *MockProfileRepository) SetOffline(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// UpdateProfile moke update profile
func (m *MockProfileRepository) UpdateProfile(ctx context.Context, uid string, update domain.ProfileUpdate) error {
	args := m.Called(ctx, uid, update)
	return args.Error(0)
}

// FindByID moke find profile by uid
func (m *MockProfileRepository) FindByID(ctx context.Context, uid string) (*domain.Profile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByEmail moke find profile by email
func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) ([]domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPresenceBeacon Mock PresenceBeacon
type MockPresenceBeacon struct {
	mock.Mock
}

// MarkOfflineAsync moke mark offline
func (m *MockPresenceBeacon) MarkOfflineAsync(uid string) {
	m.Called(uid)
}

// MockAvatarStorage Mock AvatarStorage
type MockAvatarStorage struct {
	mock.Mock
}

// UploadStream moke upload object
func (m *MockAvatarStorage) UploadStream(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, size, contentType)
	return args.Error(0)
}

// ObjectURL moke object url
func (m *MockAvatarStorage) ObjectURL(objectName string) string {
	args := m.Called(objectName)
	return args.String(0)
}
