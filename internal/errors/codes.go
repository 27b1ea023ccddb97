package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Stable error codes shared across transports.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"

	// ErrInvalidCredentials covers a bad username, password or challenge
	// code. Deliberately indistinguishable from the outside.
	ErrInvalidCredentials = "INVALID_CREDENTIALS"

	// ErrTooManyAttempts is returned once the failed sign-in counter
	// reaches the lockout threshold.
	ErrTooManyAttempts = "TOO_MANY_ATTEMPTS"
)

// CodePair maps one error code onto both transports.
type CodePair struct {
	HTTPStatus int
	GRPCCode   codes.Code
}

var codeMapping = map[string]CodePair{
	ErrInternal:        {http.StatusInternalServerError, codes.Internal},
	ErrNotFound:        {http.StatusNotFound, codes.NotFound},
	ErrInvalidArgument: {http.StatusBadRequest, codes.InvalidArgument},
	ErrUnauthenticated: {http.StatusUnauthorized, codes.Unauthenticated},
	ErrUnauthorized:    {http.StatusForbidden, codes.PermissionDenied},
	ErrConflict:        {http.StatusConflict, codes.AlreadyExists},
	ErrTimeout:         {http.StatusGatewayTimeout, codes.DeadlineExceeded},
	ErrNotImplemented:  {http.StatusNotImplemented, codes.Unimplemented},

	ErrInvalidCredentials: {http.StatusBadRequest, codes.Unauthenticated},
	ErrTooManyAttempts:    {http.StatusUnauthorized, codes.ResourceExhausted},
}

// GetCodeMapping returns the transport mapping for a code, defaulting to
// internal.
func GetCodeMapping(code string) CodePair {
	if pair, ok := codeMapping[code]; ok {
		return pair
	}
	return codeMapping[ErrInternal]
}
