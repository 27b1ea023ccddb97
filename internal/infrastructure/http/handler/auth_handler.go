package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/wekeepgrowing/identity-server/internal/errors"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/http/middleware"
	"github.com/wekeepgrowing/identity-server/internal/usecase/dto"
	"github.com/wekeepgrowing/identity-server/internal/usecase/interfaces"
)

const refreshCookieName = "refresh_token"

// AuthHandler exposes registration, sign-in and the token lifecycle.
type AuthHandler struct {
	auth       interfaces.AuthUseCase
	refreshTTL time.Duration
	logger     *zap.Logger
}

func NewAuthHandler(auth interfaces.AuthUseCase, refreshTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

type signUpRequest struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Language        string `json:"language"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type confirmTfaRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Code           string `json:"code"`
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        interface{} `json:"user"`
}

type challengeResponse struct {
	TFARequired    bool   `json:"tfa_required"`
	ChallengeToken string `json:"challenge_token"`
	SendMethod     string `json:"send_method"`
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	result, err := h.auth.SignUp(c.Request().Context(), dto.SignUpParams{
		Name:            req.Name,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Language:        req.Language,
		IP:              c.RealIP(),
		UserAgent:       c.Request().UserAgent(),
	})
	if err != nil {
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, authResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        result.User,
	})
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	result, err := h.auth.SignIn(c.Request().Context(), dto.SignInParams{
		Username:  req.Username,
		Password:  req.Password,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return apperrors.ToHTTPError(err)
	}

	if result.TFARequired {
		return c.JSON(http.StatusOK, challengeResponse{
			TFARequired:    true,
			ChallengeToken: result.Challenge.ChallengeToken,
			SendMethod:     result.Challenge.SendMethod,
		})
	}

	h.setRefreshCookie(c, result.Auth.RefreshToken)

	return c.JSON(http.StatusOK, authResponse{
		AccessToken: result.Auth.AccessToken,
		ExpiresAt:   result.Auth.ExpiresAt,
		User:        result.Auth.User,
	})
}

func (h *AuthHandler) ConfirmTFA(c echo.Context) error {
	var req confirmTfaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	result, err := h.auth.ConfirmTFA(c.Request().Context(), req.ChallengeToken, req.Code, dto.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return apperrors.ToHTTPError(err)
	}

	h.setRefreshCookie(c, result.RefreshToken)

	return c.JSON(http.StatusOK, authResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        result.User,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing refresh token"})
	}

	result, err := h.auth.Refresh(c.Request().Context(), cookie.Value, dto.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return apperrors.ToHTTPError(err)
	}

	h.setRefreshCookie(c, result.RefreshToken)

	return c.JSON(http.StatusOK, authResponse{
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
		User:        result.User,
	})
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	user := middleware.ResolvedUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}

	if err := h.auth.SignOut(c.Request().Context(), user, dto.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}); err != nil {
		return apperrors.ToHTTPError(err)
	}

	h.clearRefreshCookie(c)

	return c.JSON(http.StatusOK, map[string]string{"status": "signed out"})
}

// Me returns the caller's public projection.
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.ResolvedUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, user.Public())
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
