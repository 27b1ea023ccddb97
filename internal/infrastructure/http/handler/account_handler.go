package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/wekeepgrowing/identity-server/internal/errors"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/http/middleware"
	"github.com/wekeepgrowing/identity-server/internal/usecase/dto"
	"github.com/wekeepgrowing/identity-server/internal/usecase/interfaces"
)

// AccountHandler exposes verification and phone-number management.
type AccountHandler struct {
	account interfaces.AccountUseCase
	logger  *zap.Logger
}

func NewAccountHandler(account interfaces.AccountUseCase, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		account: account,
		logger:  logger,
	}
}

type verifyAccountRequest struct {
	Token string `json:"token"`
}

type setPhoneRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type verifyPhoneRequest struct {
	Code string `json:"code"`
}

func (h *AccountHandler) VerifyAccount(c echo.Context) error {
	user := middleware.ResolvedUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}

	var req verifyAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	if err := h.account.VerifyAccount(c.Request().Context(), user, req.Token, requestMeta(c)); err != nil {
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "verified"})
}

func (h *AccountHandler) ResendVerification(c echo.Context) error {
	user := middleware.ResolvedUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}

	if err := h.account.ResendVerification(c.Request().Context(), user, requestMeta(c)); err != nil {
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "verification sent"})
}

func (h *AccountHandler) SetPhoneNumber(c echo.Context) error {
	user := middleware.ResolvedUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}

	var req setPhoneRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	if err := h.account.SetPhoneNumber(c.Request().Context(), user, req.PhoneNumber, requestMeta(c)); err != nil {
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "code sent"})
}

func (h *AccountHandler) VerifyPhoneNumber(c echo.Context) error {
	user := middleware.ResolvedUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}

	var req verifyPhoneRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	if err := h.account.VerifyPhoneNumber(c.Request().Context(), user, req.Code, requestMeta(c)); err != nil {
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, user.Public())
}

func (h *AccountHandler) RemovePhoneNumber(c echo.Context) error {
	user := middleware.ResolvedUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}

	if err := h.account.RemovePhoneNumber(c.Request().Context(), user, requestMeta(c)); err != nil {
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, user.Public())
}

func requestMeta(c echo.Context) dto.RequestMeta {
	return dto.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
