package app

import (
	"context"
	"time"

	"direct_chat_service/internal/identity/domain"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository Mock AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

// CreateAccount moke create account
func (m *MockAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// UpdateAccountStatus moke update account status
func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// FindByAccount moke find account by query
func (m *MockAccountRepository) FindByAccount(ctx context.Context, accountQuery *domain.AccountQuery) (*domain.Account, error) {
	args := m.Called(ctx, accountQuery)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionCache Mock RedisRepository[AccountSession]
type MockSessionCache struct {
	mock.Mock
}

// Set moke set session
func (m *MockSessionCache) Set(ctx context.Context, key string, value domain.AccountSession, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Get moke get session
func (m *MockSessionCache) Get(ctx context.Context, key string) (domain.AccountSession, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.AccountSession), args.Error(1)
}

// Del moke del session
func (m *MockSessionCache) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// GetTTL moke get session ttl
func (m *MockSessionCache) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

// ExtendTTL moke extend session ttl
func (m *MockSessionCache) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}
