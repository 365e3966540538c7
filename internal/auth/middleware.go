package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const ContextRoomIDKey = "room_id"

// JWTMiddleware проверяет access-токен и сохраняет room_id в контексте.
func JWTMiddleware(manager *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				// SSE из браузера не может выставить заголовок — пускаем токен в query.
				authHeader = queryToken(c)
			}
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := manager.ParseAccessToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			roomID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			c.Set(ContextRoomIDKey, roomID)
			return next(c)
		}
	}
}

// RoomIDFromContext извлекает идентификатор комнаты из контекста.
func RoomIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(ContextRoomIDKey)
	roomID, ok := value.(uuid.UUID)
	return roomID, ok
}

func queryToken(c echo.Context) string {
	token := strings.TrimSpace(c.QueryParam("access_token"))
	if token == "" {
		return ""
	}
	return "Bearer " + token
}
