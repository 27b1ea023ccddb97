package model

import "time"

// AuditLogModel is the audit_logs collection document.
type AuditLogModel struct {
	ID        string                 `bson:"_id"`
	UserID    *string                `bson:"user_id,omitempty"`
	Type      string                 `bson:"type"`
	Content   map[string]interface{} `bson:"content,omitempty"`
	IP        string                 `bson:"ip,omitempty"`
	UserAgent string                 `bson:"user_agent,omitempty"`
	Timestamp time.Time              `bson:"timestamp"`
}
