package router

import (
	"context"

	"direct_chat_service/internal/chat/app"
	"direct_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 註冊聊天相關路由, 全部走 JWT middleware
func RegisterRoutes(r *fiber.App, chatWebsocket *app.ChatWebsocketHandler, roomUC app.RoomUseCase) {
	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		chatWebsocket.HandleConnection(context.Background(), c)
	}))

	// REST 與 websocket action 提供相同查詢, 方便非長連線的客戶端
	r.Get("/members/search", func(c *fiber.Ctx) error {
		selfUID, _ := c.Locals(middlewares.TokenAccountID).(string)
		email := c.Query("email")
		if email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
		}

		members, err := roomUC.SearchByEmail(c.Context(), selfUID, email)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"members": members})
	})

	r.Get("/rooms", func(c *fiber.Ctx) error {
		selfUID, _ := c.Locals(middlewares.TokenAccountID).(string)

		views, err := roomUC.DirectRoomsFor(c.Context(), selfUID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"rooms": views})
	})
}
