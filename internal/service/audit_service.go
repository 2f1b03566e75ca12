package service

import (
	"context"

	"car-rental-admin/internal/domain/entity"
	"car-rental-admin/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry describes the change made to one entity
type AuditEntry struct {
	EntityID string
	OldValue interface{}
	NewValue interface{}
}

type AuditService interface {
	LogAction(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error
	LogUpdates(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entries []AuditEntry) error
	LogDeletes(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entries []AuditEntry) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogAction logs an action that is not tied to a single entity (login, logout, bootstrap)
func (s *auditService) LogAction(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

// LogUpdates writes one audit row per updated entity, in the caller's transaction
func (s *auditService) LogUpdates(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entries []AuditEntry) error {
	return s.logBatch(ctx, tx, userID, action, entityName, entries)
}

// LogDeletes writes one audit row per deleted entity with its last known value
func (s *auditService) LogDeletes(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entries []AuditEntry) error {
	for i := range entries {
		entries[i].NewValue = nil
	}
	return s.logBatch(ctx, tx, userID, action, entityName, entries)
}

func (s *auditService) logBatch(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entries []AuditEntry) error {
	logs := make([]entity.AuditLog, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, entity.AuditLog{
			UserID:     userID,
			Action:     action,
			EntityType: entityName,
			EntityID:   e.EntityID,
			Metadata: entity.JSON{
				"old_value": e.OldValue,
				"new_value": e.NewValue,
			},
		})
	}

	if err := s.auditRepo.CreateBatch(tx.WithContext(ctx), logs); err != nil {
		s.log.Warnf("Failed to create %d audit logs for %s: %+v", len(logs), action, err)
		return err
	}

	return nil
}
