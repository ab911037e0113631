package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"direct_chat_service/internal/identity/domain"
	"direct_chat_service/internal/identity/repository"
	"direct_chat_service/pkg/config"
	"direct_chat_service/pkg/database"
	"direct_chat_service/pkg/encrypt"
	errprocess "direct_chat_service/pkg/err"
	"direct_chat_service/pkg/logger"
	token "direct_chat_service/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityUseCase 身分提供方, 對外交付穩定的 identity handle 與 session token
type IdentityUseCase interface {
	Register(ctx context.Context, email, password, displayName string) error
	Login(ctx context.Context, email, password string) (string, *token.Claims, error)
	FederatedLogin(ctx context.Context, provider, subject, email, displayName, avatarURL string) (string, *token.Claims, error)
	Logout(ctx context.Context, token string) error
	ParseSession(tokenStr string) (*token.Claims, error)
	FindAccount(ctx context.Context, param *domain.AccountQuery) (*domain.Account, error)
}

type identityUseCase struct {
	accountRepo repository.AccountRepository
	sessionTTL  time.Duration
	redisRepo   database.RedisRepository[domain.AccountSession]
}

// NewIdentityUseCase 建立一個新的 IdentityUseCase
func NewIdentityUseCase(accountRepo repository.AccountRepository,
	sessionTTL time.Duration,
	redisRepo database.RedisRepository[domain.AccountSession],
) IdentityUseCase {
	return &identityUseCase{
		accountRepo: accountRepo,
		sessionTTL:  sessionTTL,
		redisRepo:   redisRepo,
	}
}

// Register 帳密註冊
func (m *identityUseCase) Register(ctx context.Context, email, password, displayName string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	// 檢查 email 是否已存在
	if _, err := m.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Email: &email}); err == nil {
		return errors.New("email already exists")
	}

	pw, err := encrypt.HashPassword(password)
	if err != nil {
		logger.Log.Errorf("password err :", err)
		return err
	}

	if displayName == "" {
		displayName = strings.Split(email, "@")[0]
	}

	account := domain.Account{
		AccountID:   uuid.New().String(),
		Email:       email,
		Password:    pw,
		DisplayName: displayName,
	}

	logger.Log.Debug("usecase Register", zap.String("email", email))

	if err := m.accountRepo.CreateAccount(ctx, &account); err != nil {
		return errprocess.Wrap(errprocess.ErrProviderUnavailable, err)
	}

	return nil
}

// Login 帳密登入, 成功時發出 session token 並快取 session
func (m *identityUseCase) Login(ctx context.Context, email, password string) (string, *token.Claims, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := m.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Email: &email})
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			logger.Log.Error("email can't find!!!")
			return "", nil, errprocess.Wrap(errprocess.ErrAuthRejected, err)
		}
		return "", nil, errprocess.Wrap(errprocess.ErrProviderUnavailable, err)
	}

	if err = account.IsPasswordMatch(password); err != nil {
		logger.Log.Error("password can't match!!!")
		return "", nil, errprocess.Wrap(errprocess.ErrAuthRejected, err)
	}

	return m.issueSession(ctx, account)
}

// FederatedLogin 聯合登入交換
// 首次交換時自動開通帳號(無密碼), 之後沿用同一 identity handle
func (m *identityUseCase) FederatedLogin(ctx context.Context, provider, subject, email, displayName, avatarURL string) (string, *token.Claims, error) {
	if provider == "" || subject == "" {
		return "", nil, errprocess.Wrap(errprocess.ErrAuthRejected, errors.New("missing provider assertion"))
	}
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := m.accountRepo.FindByAccount(ctx, &domain.AccountQuery{Provider: &provider, Subject: &subject})
	if err != nil {
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return "", nil, errprocess.Wrap(errprocess.ErrProviderUnavailable, err)
		}

		if displayName == "" {
			displayName = strings.Split(email, "@")[0]
		}
		account = &domain.Account{
			AccountID:   uuid.New().String(),
			Email:       email,
			DisplayName: displayName,
			AvatarURL:   avatarURL,
			Provider:    provider,
			Subject:     subject,
		}
		if err := m.accountRepo.CreateAccount(ctx, account); err != nil {
			return "", nil, errprocess.Wrap(errprocess.ErrProviderUnavailable, err)
		}
	}

	return m.issueSession(ctx, account)
}

func (m *identityUseCase) issueSession(ctx context.Context, account *domain.Account) (string, *token.Claims, error) {
	t, err := token.GenerateJWT(account.AccountID, account.Email, account.DisplayName, account.AvatarURL, config.EnvConfig.ChatService)
	if err != nil {
		return "", nil, errprocess.Wrap(errprocess.ErrProviderUnavailable, err)
	}

	now := time.Now()
	session := domain.AccountSession{
		Token:        t,
		AccountID:    account.AccountID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(m.sessionTTL),
	}

	m.redisRepo.Set(ctx, account.AccountID, session, m.sessionTTL)

	account.Status = domain.AccountStatusOnLine
	if err := m.accountRepo.UpdateAccountStatus(ctx, account); err != nil {
		return "", nil, errprocess.Wrap(errprocess.ErrProviderUnavailable, err)
	}

	claims, err := token.ParseJWT(t)
	if err != nil {
		return "", nil, errprocess.Wrap(errprocess.ErrProviderUnavailable, err)
	}
	return t, claims, nil
}

// Logout 登出, 刪除 session 快取
func (m *identityUseCase) Logout(ctx context.Context, t string) error {
	tokenInfo, err := token.ParseJWT(t)
	if err != nil {
		logger.Log.Error("Logout err :", zap.String("err", err.Error()))
		return err
	}
	logger.Log.Debug("logout", zap.String("account token info", fmt.Sprintf("%v", tokenInfo)))

	m.redisRepo.Del(ctx, tokenInfo.AccountID)

	if err := m.accountRepo.UpdateAccountStatus(ctx, &domain.Account{
		AccountID: tokenInfo.AccountID,
		Status:    domain.AccountStatusOffLine,
	}); err != nil {
		return err
	}
	return nil
}

// ParseSession 解析 token, 交付 claims 給 session provider
func (m *identityUseCase) ParseSession(tokenStr string) (*token.Claims, error) {
	claims, err := token.ParseJWT(tokenStr)
	if err != nil {
		return nil, errprocess.Wrap(errprocess.ErrAuthRejected, err)
	}
	return claims, nil
}

// FindAccount 查詢帳號
func (m *identityUseCase) FindAccount(ctx context.Context, param *domain.AccountQuery) (*domain.Account, error) {
	return m.accountRepo.FindByAccount(ctx, param)
}
