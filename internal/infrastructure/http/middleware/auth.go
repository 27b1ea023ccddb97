package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/usecase/constants"
	"github.com/wekeepgrowing/identity-server/internal/usecase/interfaces"
)

// Context keys set after authentication.
const (
	UserIDKey = "user_id"
	UserKey   = constants.ResolvedUserContextKey
)

// AuthMiddleware resolves the bearer access token into a user record once
// per request. Token validation itself is delegated to the auth use case.
type AuthMiddleware struct {
	auth   interfaces.AuthUseCase
	logger *zap.Logger
}

func NewAuthMiddleware(auth interfaces.AuthUseCase, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   auth,
		logger: logger,
	}
}

// Handle extracts and verifies the bearer token, then stores the resolved
// user on the request context.
func (m *AuthMiddleware) Handle() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "missing authorization header",
				})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "malformed authorization header",
				})
			}

			user, err := m.auth.ResolveAccessToken(c.Request().Context(), parts[1])
			if err != nil {
				m.logger.Info("authentication failed",
					zap.String("ip", c.RealIP()),
					zap.String("path", c.Request().URL.Path),
					zap.Error(err))
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid access token",
				})
			}

			c.Set(UserIDKey, user.ID)
			c.Set(UserKey, user)

			return next(c)
		}
	}
}

// ResolvedUser returns the user the middleware stored, or nil.
func ResolvedUser(c echo.Context) *entity.User {
	user, _ := c.Get(UserKey).(*entity.User)
	return user
}
