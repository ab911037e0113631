package app

import (
	"direct_chat_service/internal/session/domain"
	"direct_chat_service/pkg/logger"
	"direct_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler 處理登入登出相關的 HTTP 請求
type SessionHandler struct {
	sessionUC *SessionUseCase
}

// NewSessionHandler create SessionHandler
func NewSessionHandler(sessionUC *SessionUseCase) *SessionHandler {
	return &SessionHandler{sessionUC: sessionUC}
}

// Register 帳密註冊, 成功直接回 session token
func (h *SessionHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Info("Register request", zap.String("email", req.Email))

	sess, t, err := h.sessionUC.SignUp(c.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"token": t, "profile": sess.Profile(), "message": "register success"})
}

// Login 帳密登入
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Login", zap.String("Email", req.Email))

	sess, t, err := h.sessionUC.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"token":    t,
		"profile":  sess.Profile(),
		"fallback": sess.IsFallback(),
		"message":  "login success",
	})
}

// FederatedLogin 外部 provider 登入, 帳號不存在時自動開通
func (h *SessionHandler) FederatedLogin(c *fiber.Ctx) error {
	type request struct {
		Provider    string `json:"provider"`
		Subject     string `json:"subject"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Provider == "" || req.Subject == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "provider and subject are required"})
	}

	sess, t, err := h.sessionUC.SignInWithProvider(c.Context(), req.Provider, req.Subject, req.Email, req.DisplayName, req.AvatarURL)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"token":    t,
		"profile":  sess.Profile(),
		"fallback": sess.IsFallback(),
		"message":  "login success",
	})
}

// Logout 登出, 離線標記失敗也回成功
// 不走 Resume, 登出路徑不該再把 profile 標回上線
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessionUC.SignOutToken(c.Context(), middlewares.ExtractToken(c)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "logout success"})
}

// OfflineBeacon 頁面關閉時的離線通報, 立即回應不等結果
func (h *SessionHandler) OfflineBeacon(c *fiber.Ctx) error {
	type request struct {
		UID string `json:"uid"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil || req.UID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "uid is required"})
	}

	h.sessionUC.MarkOfflineAsync(req.UID)
	return c.SendStatus(fiber.StatusAccepted)
}

// UpdateProfile 部分更新個人資料
func (h *SessionHandler) UpdateProfile(c *fiber.Ctx) error {
	sess, ok := h.resumeFromToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid session"})
	}

	var update domain.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.sessionUC.UpdateProfile(c.Context(), sess, update); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"profile": sess.Profile(), "message": "profile updated"})
}

// UploadAvatar multipart 上傳頭像
func (h *SessionHandler) UploadAvatar(c *fiber.Ctx) error {
	sess, ok := h.resumeFromToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid session"})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer f.Close()

	url, err := h.sessionUC.UploadAvatar(
		c.Context(), sess,
		fileHeader.Filename, f, fileHeader.Size,
		fileHeader.Header.Get(fiber.HeaderContentType),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"avatar_url": url, "message": "avatar uploaded"})
}

func (h *SessionHandler) resumeFromToken(c *fiber.Ctx) (*Session, bool) {
	sess, err := h.sessionUC.Resume(c.Context(), middlewares.ExtractToken(c))
	if err != nil {
		logger.Log.Debug("resume session failed", zap.Error(err))
		return nil, false
	}
	return sess, true
}
