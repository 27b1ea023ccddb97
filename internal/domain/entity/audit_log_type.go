package entity

// AuditLogType classifies audit entries.
type AuditLogType string

const (
	AuditLogTypeUserRegistered   AuditLogType = "user_registered"
	AuditLogTypeLoginSuccess     AuditLogType = "login_success"
	AuditLogTypeLoginFailed      AuditLogType = "login_failed"
	AuditLogTypeLoginLocked      AuditLogType = "login_locked"
	AuditLogTypeTFAChallenge     AuditLogType = "tfa_challenge_issued"
	AuditLogTypeTFAConfirmed     AuditLogType = "tfa_confirmed"
	AuditLogTypeTFARejected      AuditLogType = "tfa_rejected"
	AuditLogTypeEmailVerified    AuditLogType = "email_verified"
	AuditLogTypePhoneSet         AuditLogType = "phone_set"
	AuditLogTypePhoneVerified    AuditLogType = "phone_verified"
	AuditLogTypePhoneRemoved     AuditLogType = "phone_removed"
	AuditLogTypeTokenRefreshed   AuditLogType = "token_refreshed"
	AuditLogTypeRefreshRejected  AuditLogType = "refresh_rejected"
	AuditLogTypeLogout           AuditLogType = "logout"
	AuditLogTypeVerificationSent AuditLogType = "verification_sent"
)
