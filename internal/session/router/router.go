package router

import (
	"direct_chat_service/internal/session/app"
	"direct_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 註冊登入登出相關路由
// register/login/federated 與 beacon 不走 JWT, 其餘帶驗證
func RegisterRoutes(r *fiber.App, h *app.SessionHandler) {
	auth := r.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/federated", h.FederatedLogin)
	auth.Post("/logout", middlewares.JWTMiddleware(), h.Logout)

	// navigator.sendBeacon 不帶自訂 header, 不走 JWT
	r.Post("/presence/offline", h.OfflineBeacon)

	r.Patch("/profile", middlewares.JWTMiddleware(), h.UpdateProfile)
	r.Post("/profile/avatar", middlewares.JWTMiddleware(), h.UploadAvatar)
}
