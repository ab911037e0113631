package app

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"direct_chat_service/internal/session/domain"
	errprocess "direct_chat_service/pkg/err"
	"direct_chat_service/pkg/logger"
	"direct_chat_service/pkg/token"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func testClaims(uid, email string) *token.Claims {
	return &token.Claims{
		AccountID:        uid,
		Email:            email,
		DisplayName:      "Alice",
		RegisteredClaims: jwt.RegisteredClaims{},
	}
}

// 測試登入成功後掛載 profile
func TestSessionUseCase_SignIn(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New().String()

	mockIdentity := new(MockIdentityUseCase)
	mockProfiles := new(MockProfileRepository)

	claims := testClaims(uid, "alice@example.com")
	mockIdentity.On("Login", ctx, "alice@example.com", "Password1").Return("jwt-token", claims, nil)
	mockProfiles.On("EnsureProfile", ctx, uid, "alice@example.com", "Alice", "").
		Return(&domain.Profile{UID: uid, Email: "alice@example.com", DisplayName: "Alice", IsOnline: true}, nil)

	uc := NewSessionUseCase(mockIdentity, mockProfiles, new(MockPresenceBeacon), new(MockAvatarStorage))
	sess, tokenStr, err := uc.SignIn(ctx, "alice@example.com", "Password1")

	assert.NoError(t, err)
	assert.Equal(t, "jwt-token", tokenStr)
	assert.Equal(t, uid, sess.Identity())
	assert.False(t, sess.Loading())
	assert.False(t, sess.IsFallback())
	assert.Equal(t, "Alice", sess.Profile().DisplayName)

	mockIdentity.AssertExpectations(t)
	mockProfiles.AssertExpectations(t)
}

// 測試 profile 寫入被拒時降級為記憶體 profile, 不阻擋登入
func TestSessionUseCase_Attach_WriteDeniedFallback(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New().String()

	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("EnsureProfile", ctx, uid, "bob@example.com", "", "").
		Return(nil, errprocess.Wrap(errprocess.ErrProfileWriteDenied, errors.New("code 13")))

	uc := NewSessionUseCase(new(MockIdentityUseCase), mockProfiles, new(MockPresenceBeacon), new(MockAvatarStorage))

	claims := testClaims(uid, "bob@example.com")
	claims.DisplayName = ""
	sess, err := uc.Attach(ctx, claims)

	assert.NoError(t, err)
	assert.True(t, sess.IsFallback())
	assert.Equal(t, uid, sess.Identity())
	// 沒有 display name 時用 email local part
	assert.Equal(t, "bob", sess.Profile().DisplayName)
	assert.True(t, sess.Profile().IsOnline)
}

// 測試其他 profile 錯誤照常失敗
func TestSessionUseCase_Attach_OtherError(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New().String()

	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("EnsureProfile", ctx, uid, "bob@example.com", "Alice", "").
		Return(nil, errprocess.Wrap(errprocess.ErrStoreWriteFailed, errors.New("timeout")))

	uc := NewSessionUseCase(new(MockIdentityUseCase), mockProfiles, new(MockPresenceBeacon), new(MockAvatarStorage))
	sess, err := uc.Attach(ctx, testClaims(uid, "bob@example.com"))

	assert.ErrorIs(t, err, errprocess.ErrStoreWriteFailed)
	assert.Nil(t, sess)
}

// 測試登出: 本地狀態立即清除, 離線寫入失敗不影響
func TestSessionUseCase_SignOut_ClearsImmediately(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New().String()

	mockIdentity := new(MockIdentityUseCase)
	mockProfiles := new(MockProfileRepository)

	mockProfiles.On("EnsureProfile", ctx, uid, "a@b.c", "Alice", "").
		Return(&domain.Profile{UID: uid, IsOnline: true}, nil)
	mockProfiles.On("SetOffline", ctx, uid).Return(errors.New("store unreachable"))
	mockIdentity.On("Logout", ctx, "jwt-token").Return(nil)

	uc := NewSessionUseCase(mockIdentity, mockProfiles, new(MockPresenceBeacon), new(MockAvatarStorage))
	sess, err := uc.Attach(ctx, testClaims(uid, "a@b.c"))
	assert.NoError(t, err)

	uc.SignOut(ctx, sess, "jwt-token")

	assert.Empty(t, sess.Identity())
	assert.Nil(t, sess.Profile())
	mockProfiles.AssertExpectations(t)
	mockIdentity.AssertExpectations(t)
}

// 測試 token 登出只解析 claims, 不會先把 profile 標回上線
func TestSessionUseCase_SignOutToken_SkipsAttach(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New().String()

	mockIdentity := new(MockIdentityUseCase)
	mockProfiles := new(MockProfileRepository)

	mockIdentity.On("ParseSession", "jwt-token").Return(testClaims(uid, "a@b.c"), nil)
	mockProfiles.On("SetOffline", ctx, uid).Return(nil)
	mockIdentity.On("Logout", ctx, "jwt-token").Return(nil)

	uc := NewSessionUseCase(mockIdentity, mockProfiles, new(MockPresenceBeacon), new(MockAvatarStorage))
	err := uc.SignOutToken(ctx, "jwt-token")

	assert.NoError(t, err)
	mockProfiles.AssertNotCalled(t, "EnsureProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockProfiles.AssertExpectations(t)
	mockIdentity.AssertExpectations(t)
}

// 測試 token 無效時登出被拒
func TestSessionUseCase_SignOutToken_InvalidToken(t *testing.T) {
	ctx := context.Background()

	mockIdentity := new(MockIdentityUseCase)
	mockProfiles := new(MockProfileRepository)
	mockIdentity.On("ParseSession", "garbage").Return(nil, errors.New("token is malformed"))

	uc := NewSessionUseCase(mockIdentity, mockProfiles, new(MockPresenceBeacon), new(MockAvatarStorage))
	err := uc.SignOutToken(ctx, "garbage")

	assert.Error(t, err)
	mockProfiles.AssertNotCalled(t, "SetOffline", mock.Anything, mock.Anything)
}

// 測試頁面關閉 beacon 轉發
func TestSessionUseCase_MarkOfflineAsync(t *testing.T) {
	uid := uuid.New().String()

	mockBeacon := new(MockPresenceBeacon)
	mockBeacon.On("MarkOfflineAsync", uid).Return()

	uc := NewSessionUseCase(new(MockIdentityUseCase), new(MockProfileRepository), mockBeacon, new(MockAvatarStorage))
	uc.MarkOfflineAsync(uid)
	uc.MarkOfflineAsync("") // 空 uid 不轉發

	mockBeacon.AssertNumberOfCalls(t, "MarkOfflineAsync", 1)
}

// 測試更新 profile 同步 session 內快取
func TestSessionUseCase_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New().String()

	mockProfiles := new(MockProfileRepository)
	mockProfiles.On("EnsureProfile", ctx, uid, "a@b.c", "Alice", "").
		Return(&domain.Profile{UID: uid, DisplayName: "Alice"}, nil)

	newName := "Alice Chen"
	mockProfiles.On("UpdateProfile", ctx, uid, domain.ProfileUpdate{DisplayName: &newName}).Return(nil)

	uc := NewSessionUseCase(new(MockIdentityUseCase), mockProfiles, new(MockPresenceBeacon), new(MockAvatarStorage))
	sess, err := uc.Attach(ctx, testClaims(uid, "a@b.c"))
	assert.NoError(t, err)

	err = uc.UpdateProfile(ctx, sess, domain.ProfileUpdate{DisplayName: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "Alice Chen", sess.Profile().DisplayName)
	mockProfiles.AssertExpectations(t)
}

// 測試上傳頭像後 URL 寫回 profile
func TestSessionUseCase_UploadAvatar(t *testing.T) {
	ctx := context.Background()
	uid := uuid.New().String()

	mockProfiles := new(MockProfileRepository)
	mockStorage := new(MockAvatarStorage)

	mockProfiles.On("EnsureProfile", ctx, uid, "a@b.c", "Alice", "").
		Return(&domain.Profile{UID: uid, DisplayName: "Alice"}, nil)
	mockStorage.On("UploadStream", ctx, mock.Anything, int64(4), "image/png").Return(nil)
	mockStorage.On("ObjectURL", mock.Anything).Return("http://minio/avatars/a.png")
	mockProfiles.On("UpdateProfile", ctx, uid, mock.MatchedBy(func(u domain.ProfileUpdate) bool {
		return u.AvatarURL != nil && *u.AvatarURL == "http://minio/avatars/a.png"
	})).Return(nil)

	uc := NewSessionUseCase(new(MockIdentityUseCase), mockProfiles, new(MockPresenceBeacon), mockStorage)
	sess, err := uc.Attach(ctx, testClaims(uid, "a@b.c"))
	assert.NoError(t, err)

	url, err := uc.UploadAvatar(ctx, sess, "a.png", strings.NewReader("1234"), 4, "image/png")

	assert.NoError(t, err)
	assert.Equal(t, "http://minio/avatars/a.png", url)
	assert.Equal(t, "http://minio/avatars/a.png", sess.Profile().AvatarURL)
	mockStorage.AssertExpectations(t)
	mockProfiles.AssertExpectations(t)
}
