package dto

import (
	"time"

	"car-rental-admin/internal/domain/entity"
)

type AuditLogQuery struct {
	Action     string
	EntityType string
	EntityID   string
}

type AuditLogResponse struct {
	ID         int64         `json:"id"`
	User       *UserResponse `json:"user,omitempty"`
	Action     string        `json:"action"`
	EntityType string        `json:"entity_type,omitempty"`
	EntityID   string        `json:"entity_id,omitempty"`
	Metadata   entity.JSON   `json:"metadata"`
	CreatedAt  time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
