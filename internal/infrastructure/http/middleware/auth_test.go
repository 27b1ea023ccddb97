package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	apperrors "github.com/wekeepgrowing/identity-server/internal/errors"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/http/middleware"
	"github.com/wekeepgrowing/identity-server/internal/usecase/constants"
	"github.com/wekeepgrowing/identity-server/internal/usecase/dto"
)

// stubAuthUseCase resolves every token to a fixed user (or error). Only
// ResolveAccessToken matters to the middleware.
type stubAuthUseCase struct {
	user *entity.User
	err  error
}

func (s *stubAuthUseCase) SignUp(ctx context.Context, params dto.SignUpParams) (*dto.AuthResult, error) {
	return nil, nil
}

func (s *stubAuthUseCase) SignIn(ctx context.Context, params dto.SignInParams) (*dto.SignInResult, error) {
	return nil, nil
}

func (s *stubAuthUseCase) ConfirmTFA(ctx context.Context, challengeToken, code string, meta dto.RequestMeta) (*dto.AuthResult, error) {
	return nil, nil
}

func (s *stubAuthUseCase) Refresh(ctx context.Context, refreshToken string, meta dto.RequestMeta) (*dto.AuthResult, error) {
	return nil, nil
}

func (s *stubAuthUseCase) SignOut(ctx context.Context, user *entity.User, meta dto.RequestMeta) error {
	return nil
}

func (s *stubAuthUseCase) ResolveAccessToken(ctx context.Context, token string) (*entity.User, error) {
	return s.user, s.err
}

func runRequest(t *testing.T, stub *stubAuthUseCase, authHeader string, next echo.HandlerFunc) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := middleware.NewAuthMiddleware(stub, zap.NewNop())
	require.NoError(t, mw.Handle()(next)(c))

	return rec, c
}

func TestAuthMiddleware_Handle(t *testing.T) {
	t.Run("stores the resolved user under the shared context key", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Username: "alice@example.com"}
		stub := &stubAuthUseCase{user: user}

		called := false
		_, c := runRequest(t, stub, "Bearer some-token", func(c echo.Context) error {
			called = true
			assert.Equal(t, user, c.Get(constants.ResolvedUserContextKey))
			assert.Equal(t, user.ID, c.Get(middleware.UserIDKey))
			return c.NoContent(http.StatusOK)
		})

		assert.True(t, called)
		assert.Equal(t, user, middleware.ResolvedUser(c))
	})

	t.Run("missing header is rejected before resolution", func(t *testing.T) {
		stub := &stubAuthUseCase{user: &entity.User{ID: "user-1"}}

		rec, c := runRequest(t, stub, "", func(c echo.Context) error {
			t.Fatal("next handler must not run")
			return nil
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, middleware.ResolvedUser(c))
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		stub := &stubAuthUseCase{user: &entity.User{ID: "user-1"}}

		rec, _ := runRequest(t, stub, "Token abc", func(c echo.Context) error {
			t.Fatal("next handler must not run")
			return nil
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("resolution failure yields 401", func(t *testing.T) {
		stub := &stubAuthUseCase{err: apperrors.NewAppError(apperrors.ErrUnauthenticated, "invalid token", nil)}

		rec, _ := runRequest(t, stub, "Bearer expired-token", func(c echo.Context) error {
			t.Fatal("next handler must not run")
			return nil
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
