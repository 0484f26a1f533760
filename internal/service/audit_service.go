package service

import (
	"time"

	"github.com/taxepay/internal/logger"
	"github.com/taxepay/internal/models"
	"github.com/taxepay/internal/queue"
	"github.com/taxepay/internal/repository"
)

// AuditService append-only audit trail. Entries go through the queue when it
// is enabled, otherwise straight to the database. Recording is best effort.
type AuditService struct {
	auditRepo   repository.AuditLogRepository
	queueClient *queue.Client
}

// NewAuditService creates the audit service
func NewAuditService(auditRepo repository.AuditLogRepository, queueClient *queue.Client) *AuditService {
	return &AuditService{
		auditRepo:   auditRepo,
		queueClient: queueClient,
	}
}

// Record appends one audit entry
func (s *AuditService) Record(entry *models.AuditLog) error {
	if s == nil || entry == nil {
		return nil
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if s.queueClient != nil && s.queueClient.Enabled() {
		return s.queueClient.EnqueueAuditAppend(queue.AuditAppendPayload{
			ActorID:    entry.ActorID,
			ActorType:  entry.ActorType,
			Source:     entry.Source,
			Action:     entry.Action,
			Resource:   entry.Resource,
			ResourceID: entry.ResourceID,
			Before:     entry.Before,
			After:      entry.After,
			ClientIP:   entry.ClientIP,
			RecordedAt: entry.CreatedAt,
		})
	}
	return s.auditRepo.Create(entry)
}

// Append persists an entry built from a queue payload
func (s *AuditService) Append(payload queue.AuditAppendPayload) error {
	entry := &models.AuditLog{
		ActorID:    payload.ActorID,
		ActorType:  payload.ActorType,
		Source:     payload.Source,
		Action:     payload.Action,
		Resource:   payload.Resource,
		ResourceID: payload.ResourceID,
		Before:     models.JSON(payload.Before),
		After:      models.JSON(payload.After),
		ClientIP:   payload.ClientIP,
		CreatedAt:  payload.RecordedAt,
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.auditRepo.Create(entry); err != nil {
		logger.SW("action", payload.Action, "resource_id", payload.ResourceID).
			Errorw("audit_append_failed", "error", err)
		return err
	}
	return nil
}

// List returns audit entries for back-office review
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	return s.auditRepo.List(filter)
}
