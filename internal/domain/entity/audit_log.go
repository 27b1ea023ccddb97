package entity

import "time"

// AuditLog records one security-relevant event.
type AuditLog struct {
	ID        string
	UserID    *string
	Type      AuditLogType
	Content   map[string]interface{}
	IP        string
	UserAgent string
	Timestamp time.Time
}

// NewAuditLog builds an audit entry stamped with the current time.
func NewAuditLog(userID *string, logType AuditLogType, ip, userAgent string) *AuditLog {
	return &AuditLog{
		UserID:    userID,
		Type:      logType,
		IP:        ip,
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}
}

// AddContentField attaches one extra field to the entry content.
func (l *AuditLog) AddContentField(key string, value interface{}) {
	if l.Content == nil {
		l.Content = make(map[string]interface{})
	}
	l.Content[key] = value
}
