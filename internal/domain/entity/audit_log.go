package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one row of the back-office audit trail. Booking mutations write one row per
// booking, keyed by EntityType/EntityID, so the history of a booking can be listed.
type AuditLog struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string     `gorm:"type:varchar(100);not null;index" json:"action"`
	EntityType string     `gorm:"type:varchar(50)" json:"entity_type,omitempty"`
	EntityID   string     `gorm:"type:varchar(64)" json:"entity_id,omitempty"`
	Metadata   JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter narrows the audit trail listing; zero fields match everything
type AuditLogFilter struct {
	Action     string
	EntityType string
	EntityID   string
}

// JSON maps a jsonb column
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb value of type %T", value)
	}

	m := JSON{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}
	*j = m
	return nil
}

const (
	AuditActionUserLogin           = "user.login"
	AuditActionUserLogout          = "user.logout"
	AuditActionUserBootstrap       = "user.bootstrap"
	AuditActionBookingStatusUpdate = "booking.status_update"
	AuditActionBookingDelete       = "booking.delete"
)

const AuditEntityBooking = "booking"
