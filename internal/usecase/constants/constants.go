package constants

const (
	// TFACodeLength is the exact digit count of a challenge code.
	TFACodeLength = 6

	// DefaultLanguage is used when a user record carries no locale.
	DefaultLanguage = "en"

	// ResolvedUserContextKey carries the authenticated user through
	// request handling.
	ResolvedUserContextKey = "resolved_user"
)
