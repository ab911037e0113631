package middlewares

import (
	t_token "direct_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenAccountID get account from token, set c.locals name
	TokenAccountID = "AccountID"
	//TokenDisplayName get display name from token, set c.locals name
	TokenDisplayName = "DisplayName"
	//TokenEmail get email from token, set c.locals name
	TokenEmail = "Email"
)

// ExtractToken 依 query -> cookie -> Authorization header 順序取 token
func ExtractToken(c *fiber.Ctx) string {
	tokenStr := c.Query(QueryToken)

	// 查詢參數沒有 token, 嘗試從 Cookie 取得
	if tokenStr == "" {
		tokenStr = c.Cookies(CookieToken)
	}

	// 再嘗試 Authorization header
	if tokenStr == "" {
		auth := c.Get(fiber.HeaderAuthorization)
		if len(auth) > 7 && auth[:7] == "Bearer " {
			tokenStr = auth[7:]
		}
	}
	return tokenStr
}

// JWTMiddleware validates JWT in query, cookie or Authorization header
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := ExtractToken(c)
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		// Parse and validate token
		token, err := jwt.ParseWithClaims(tokenStr, &t_token.Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Unexpected signing method")
			}
			return t_token.JWTSecret, nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		// Extract claims and pass them to the context
		if claims, ok := token.Claims.(*t_token.Claims); ok && token.Valid {
			c.Locals(TokenAccountID, claims.AccountID)
			c.Locals(TokenDisplayName, claims.DisplayName)
			c.Locals(TokenEmail, claims.Email)
		} else {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		return c.Next()
	}
}
