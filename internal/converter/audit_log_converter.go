package converter

import (
	"car-rental-admin/internal/delivery/dto"
	"car-rental-admin/internal/domain/entity"
)

func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	return &dto.AuditLogResponse{
		ID:         log.ID,
		User:       UserToResponse(log.User),
		Action:     log.Action,
		EntityType: log.EntityType,
		EntityID:   log.EntityID,
		Metadata:   log.Metadata,
		CreatedAt:  log.CreatedAt,
	}
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = *AuditLogToResponse(&logs[i])
	}
	return responses
}

// AuditLogQueryToFilter matches values exactly as they are stored
func AuditLogQueryToFilter(q dto.AuditLogQuery) entity.AuditLogFilter {
	return entity.AuditLogFilter{
		Action:     q.Action,
		EntityType: q.EntityType,
		EntityID:   q.EntityID,
	}
}
