package router

import (
	"net/http/httptest"
	"os"
	"testing"

	"direct_chat_service/internal/session/app"
	"direct_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

func newTestApp() *fiber.App {
	uc := app.NewSessionUseCase(
		new(app.MockIdentityUseCase),
		new(app.MockProfileRepository),
		new(app.MockPresenceBeacon),
		new(app.MockAvatarStorage),
	)
	r := fiber.New()
	RegisterRoutes(r, app.NewSessionHandler(uc))
	return r
}

// 測試 profile 與 logout 路由沒帶 token 直接被 middleware 擋下
func TestRegisterRoutes_TokenRequired(t *testing.T) {
	r := newTestApp()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{fiber.MethodPatch, "/profile"},
		{fiber.MethodPost, "/profile/avatar"},
		{fiber.MethodPost, "/auth/logout"},
	} {
		resp, err := r.Test(httptest.NewRequest(tc.method, tc.path, nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, tc.path)
	}
}

// 測試 beacon 路由不需要 token
func TestRegisterRoutes_BeaconIsPublic(t *testing.T) {
	r := newTestApp()

	req := httptest.NewRequest(fiber.MethodPost, "/presence/offline", nil)
	resp, err := r.Test(req)

	assert.NoError(t, err)
	// 空 body 是 bad request, 不是 unauthorized
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
