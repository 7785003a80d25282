package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
)

// AuditService records compliance events in the MongoDB side store. Every
// write is best-effort with its own timeout: the relational transaction has
// already committed by the time these run, and an audit outage must not fail
// user-facing requests.
type AuditService interface {
	Record(userID int64, action, entity string, entityID *int64, oldValues, newValues map[string]interface{})
	RecordFailure(userID int64, action, entity string, entityID *int64)
	Snapshot(app *models.Application)
	MirrorDocument(doc *models.Document)
	ListLogs(ctx context.Context, userID int64, entity string, limit int64) ([]models.AuditLog, error)
	ListApplicationVersions(ctx context.Context, applicationID int64) ([]models.ApplicationVersion, error)
	ScrubUser(ctx context.Context, userID int64) error
}

type auditService struct {
	repo    *repositories.AuditRepository
	timeout time.Duration
	logger  zerolog.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(repo *repositories.AuditRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:    repo,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// Record appends a success audit entry.
func (s *auditService) Record(userID int64, action, entity string, entityID *int64, oldValues, newValues map[string]interface{}) {
	s.insert(&models.AuditLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		OldValues: oldValues,
		NewValues: newValues,
		Status:    models.AuditSuccess,
		Timestamp: time.Now(),
	})
}

// RecordFailure appends a failure audit entry for a rejected or errored action.
func (s *auditService) RecordFailure(userID int64, action, entity string, entityID *int64) {
	s.insert(&models.AuditLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Status:    models.AuditFailure,
		Timestamp: time.Now(),
	})
}

func (s *auditService) insert(entry *models.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.repo.InsertAuditLog(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.Action).Str("entity", entry.Entity).Msg("Failed to write audit log")
	}
}

// Snapshot captures the pre-review state of an application.
func (s *auditService) Snapshot(app *models.Application) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	snapshot := &models.ApplicationVersion{
		ApplicationID: app.ID,
		Version:       app.Version,
		Status:        app.Status,
		ReviewerNotes: app.ReviewerNotes,
		AdminNotes:    app.AdminNotes,
		Score:         app.Score,
		CapturedAt:    time.Now(),
	}
	if err := s.repo.InsertApplicationVersion(ctx, snapshot); err != nil {
		s.logger.Warn().Err(err).Int64("applicationID", app.ID).Msg("Failed to write application snapshot")
	}
}

// MirrorDocument mirrors a document's verification state.
func (s *auditService) MirrorDocument(doc *models.Document) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	meta := &models.DocumentMetadata{
		DocumentID:      doc.ID,
		StudentID:       doc.StudentID,
		Type:            string(doc.Type),
		OriginalName:    doc.OriginalName,
		MimeType:        doc.MimeType,
		FileSize:        doc.FileSize,
		IsVerified:      doc.IsVerified,
		RejectionReason: doc.RejectionReason,
		VerifiedAt:      doc.VerifiedAt,
		UpdatedAt:       time.Now(),
	}
	if err := s.repo.UpsertDocumentMetadata(ctx, meta); err != nil {
		s.logger.Warn().Err(err).Int64("documentID", doc.ID).Msg("Failed to mirror document metadata")
	}
}

// ListLogs returns audit entries for the admin audit view.
func (s *auditService) ListLogs(ctx context.Context, userID int64, entity string, limit int64) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListAuditLogs(ctx, userID, entity, limit)
}

// ListApplicationVersions returns the snapshot history of one application.
func (s *auditService) ListApplicationVersions(ctx context.Context, applicationID int64) ([]models.ApplicationVersion, error) {
	return s.repo.ListApplicationVersions(ctx, applicationID)
}

// ScrubUser removes personal data from the audit trail during GDPR erasure.
func (s *auditService) ScrubUser(ctx context.Context, userID int64) error {
	return s.repo.DeleteUserAuditData(ctx, userID)
}
