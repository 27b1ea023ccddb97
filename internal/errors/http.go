package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPStatus resolves the HTTP status for an error.
func ToHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return GetCodeMapping(appErr.code).HTTPStatus
	}
	return http.StatusInternalServerError
}

// ToHTTPError converts an error into an echo HTTPError. Only the AppError
// message is exposed; wrapped causes stay in the logs.
func ToHTTPError(err error) *echo.HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(GetCodeMapping(appErr.code).HTTPStatus, map[string]string{
			"code":    appErr.code,
			"message": appErr.message,
		})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
		"code":    ErrInternal,
		"message": "internal error",
	})
}
