package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent is one entry of the authentication audit trail.
type AuditEvent struct {
	ID         uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	EventType  string    `json:"event_type" gorm:"type:varchar(64);index;not null"`
	Identifier string    `json:"identifier,omitempty" gorm:"type:varchar(64);index"`
	ClientIP   string    `json:"client_ip,omitempty" gorm:"type:varchar(64)"`
	Success    bool      `json:"success"`
	Detail     string    `json:"detail,omitempty" gorm:"type:varchar(255)"`
	RequestID  string    `json:"request_id,omitempty" gorm:"type:varchar(64)"`
	Timestamp  time.Time `json:"timestamp" gorm:"index;not null"`
	// Signature is an HMAC over the other fields, empty when signing is disabled.
	Signature string `json:"signature,omitempty" gorm:"type:varchar(128)"`
}

func (AuditEvent) TableName() string {
	return "auth_audit_events"
}

// NewAuditEvent stamps a new event with a fresh ID and the given time in UTC.
func NewAuditEvent(eventType, identifier, clientIP string, success bool, at time.Time) AuditEvent {
	return AuditEvent{
		ID:         uuid.New(),
		EventType:  eventType,
		Identifier: identifier,
		ClientIP:   clientIP,
		Success:    success,
		Timestamp:  at.UTC(),
	}
}
