package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	identityapp "direct_chat_service/internal/identity/app"
	"direct_chat_service/internal/session/domain"
	"direct_chat_service/internal/session/repository"
	errprocess "direct_chat_service/pkg/err"
	"direct_chat_service/pkg/logger"
	"direct_chat_service/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session 當前登入狀態的 context 物件
// 只由 SessionUseCase 變更, 其他元件唯讀
type Session struct {
	mu sync.RWMutex

	identity string
	profile  *domain.Profile
	loading  bool
	// fallback 表示 profile 寫入被拒, 目前使用 claims 合成的記憶體版本
	fallback bool
}

// Identity 回傳目前的 identity handle, 未登入為空字串
func (s *Session) Identity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Profile 回傳目前的 profile, 未登入為 nil
func (s *Session) Profile() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// Loading 回傳是否在認證處理中
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsFallback 回傳 profile 是否為記憶體合成版本
func (s *Session) IsFallback() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}

func (s *Session) set(identity string, profile *domain.Profile, fallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.profile = profile
	s.fallback = fallback
	s.loading = false
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// clear 立即清除本地登入狀態
func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = ""
	s.profile = nil
	s.fallback = false
	s.loading = false
}

// AvatarStorage 頭像儲存介面 (database.MinIOClient 直接滿足)
type AvatarStorage interface {
	UploadStream(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	ObjectURL(objectName string) string
}

// SessionUseCase session provider
// 認證交給 identity provider, profile 存於自有 store
type SessionUseCase struct {
	identityUC  identityapp.IdentityUseCase
	profileRepo repository.ProfileRepository
	beacon      repository.PresenceBeacon
	storage     AvatarStorage
}

// NewSessionUseCase create SessionUseCase
func NewSessionUseCase(
	identityUC identityapp.IdentityUseCase,
	profileRepo repository.ProfileRepository,
	beacon repository.PresenceBeacon,
	storage AvatarStorage,
) *SessionUseCase {
	return &SessionUseCase{
		identityUC:  identityUC,
		profileRepo: profileRepo,
		beacon:      beacon,
		storage:     storage,
	}
}

// SignUp 帳密註冊後直接登入
func (uc *SessionUseCase) SignUp(ctx context.Context, email, password, displayName string) (*Session, string, error) {
	if err := uc.identityUC.Register(ctx, email, password, displayName); err != nil {
		return nil, "", err
	}
	return uc.SignIn(ctx, email, password)
}

// SignIn 帳密登入
func (uc *SessionUseCase) SignIn(ctx context.Context, email, password string) (*Session, string, error) {
	t, claims, err := uc.identityUC.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	sess, err := uc.Attach(ctx, claims)
	if err != nil {
		return nil, "", err
	}
	return sess, t, nil
}

// SignInWithProvider 聯合登入
func (uc *SessionUseCase) SignInWithProvider(ctx context.Context, provider, subject, email, displayName, avatarURL string) (*Session, string, error) {
	t, claims, err := uc.identityUC.FederatedLogin(ctx, provider, subject, email, displayName, avatarURL)
	if err != nil {
		return nil, "", err
	}

	sess, err := uc.Attach(ctx, claims)
	if err != nil {
		return nil, "", err
	}
	return sess, t, nil
}

// Resume 以既有 token 恢復 session (頁面重載等)
func (uc *SessionUseCase) Resume(ctx context.Context, tokenStr string) (*Session, error) {
	claims, err := uc.identityUC.ParseSession(tokenStr)
	if err != nil {
		return nil, err
	}
	return uc.Attach(ctx, claims)
}

// Attach 每次認證成功都要執行
// profile 不存在則建立, 存在則標記上線並更新 last_seen
// 寫入被拒時以 claims 合成記憶體 profile, 不阻擋認證
func (uc *SessionUseCase) Attach(ctx context.Context, claims *token.Claims) (*Session, error) {
	sess := &Session{}
	sess.setLoading(true)

	profile, err := uc.profileRepo.EnsureProfile(ctx, claims.AccountID, claims.Email, claims.DisplayName, claims.AvatarURL)
	if err != nil {
		if !errors.Is(err, errprocess.ErrProfileWriteDenied) {
			sess.clear()
			return nil, err
		}

		// 權限被拒, 降級為記憶體 profile, UI 仍可使用
		logger.Log.Warn("profile write denied, using in-memory profile",
			zap.String("uid", claims.AccountID))
		displayName := claims.DisplayName
		if displayName == "" {
			displayName = strings.Split(claims.Email, "@")[0]
		}
		now := time.Now().UnixMilli()
		profile = &domain.Profile{
			UID:         claims.AccountID,
			Email:       claims.Email,
			DisplayName: displayName,
			AvatarURL:   claims.AvatarURL,
			IsOnline:    true,
			LastSeen:    now,
			CreatedAt:   now,
		}
		sess.set(claims.AccountID, profile, true)
		return sess, nil
	}

	sess.set(claims.AccountID, profile, false)
	return sess, nil
}

// SignOut 登出
// 本地狀態立即清除, 離線寫入為 best-effort, 失敗不回滾登出
func (uc *SessionUseCase) SignOut(ctx context.Context, sess *Session, tokenStr string) {
	uid := sess.Identity()
	sess.clear()
	if uid == "" {
		return
	}

	if err := uc.profileRepo.SetOffline(ctx, uid); err != nil {
		logger.Log.Error("sign-out set offline err", zap.String("uid", uid), zap.Error(err))
	}
	if err := uc.identityUC.Logout(ctx, tokenStr); err != nil {
		logger.Log.Error("sign-out logout err", zap.String("uid", uid), zap.Error(err))
	}
}

// SignOutToken 以 token 登出, 只解析不 Attach
// 避免登出前一刻又把 profile 標記上線
func (uc *SessionUseCase) SignOutToken(ctx context.Context, tokenStr string) error {
	claims, err := uc.identityUC.ParseSession(tokenStr)
	if err != nil {
		return err
	}

	if err := uc.profileRepo.SetOffline(ctx, claims.AccountID); err != nil {
		logger.Log.Error("sign-out set offline err", zap.String("uid", claims.AccountID), zap.Error(err))
	}
	if err := uc.identityUC.Logout(ctx, tokenStr); err != nil {
		logger.Log.Error("sign-out logout err", zap.String("uid", claims.AccountID), zap.Error(err))
	}
	return nil
}

// MarkOfflineAsync 頁面關閉 beacon, 不等待結果
func (uc *SessionUseCase) MarkOfflineAsync(uid string) {
	if uid == "" {
		return
	}
	uc.beacon.MarkOfflineAsync(uid)
}

// UpdateProfile 部分更新 profile 並同步 session 內的快取
func (uc *SessionUseCase) UpdateProfile(ctx context.Context, sess *Session, update domain.ProfileUpdate) error {
	uid := sess.Identity()
	if uid == "" {
		return errprocess.Set("update profile without session")
	}

	if err := uc.profileRepo.UpdateProfile(ctx, uid, update); err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.profile != nil {
		if update.DisplayName != nil {
			sess.profile.DisplayName = *update.DisplayName
		}
		if update.AvatarURL != nil {
			sess.profile.AvatarURL = *update.AvatarURL
		}
	}
	return nil
}

// UploadAvatar 上傳頭像到物件儲存, 並把 URL 寫回 profile
func (uc *SessionUseCase) UploadAvatar(ctx context.Context, sess *Session, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	uid := sess.Identity()
	if uid == "" {
		return "", errprocess.Set("upload avatar without session")
	}

	objectName := fmt.Sprintf("avatars/%s/%s_%s", uid, uuid.New().String(), filename)
	if err := uc.storage.UploadStream(ctx, objectName, reader, size, contentType); err != nil {
		return "", errprocess.Wrap(errprocess.ErrStoreWriteFailed, err)
	}

	url := uc.storage.ObjectURL(objectName)
	if err := uc.UpdateProfile(ctx, sess, domain.ProfileUpdate{AvatarURL: &url}); err != nil {
		return "", err
	}
	return url, nil
}
