package errors

import (
	"errors"

	"go.uber.org/zap"
)

// LogError logs an error with its code attached when one is present.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	all := append([]zap.Field{zap.Error(err)}, fields...)

	var appErr *AppError
	if errors.As(err, &appErr) {
		all = append(all, zap.String("error_code", appErr.code))
	}

	logger.Error(msg, all...)
}
