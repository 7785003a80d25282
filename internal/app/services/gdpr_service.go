package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/filestorage"
)

// Store interfaces for the GDPR flows, satisfied by the concrete repositories.

type erasureUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	AnonymizeUser(ctx context.Context, userID int64) error
}

type erasureStudentStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	UpdateProfile(ctx context.Context, studentID int64, fields map[string]interface{}) error
	AnonymizeStudent(ctx context.Context, studentID int64) error
}

type erasureApplicationStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Application, error)
	DeleteDrafts(ctx context.Context, studentID int64) (int64, error)
}

type erasureDocumentStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Document, error)
	DeleteByStudent(ctx context.Context, studentID int64) ([]string, error)
}

type erasureNotificationStore interface {
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, offset uint64, limit int) ([]models.Notification, int64, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

type erasureTokenStore interface {
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// GDPRService implements the data subject rights: export (access and
// portability), rectification, erasure and consent records. Erasure
// anonymizes rather than deletes so approved applications keep their
// financial trail.
type GDPRService interface {
	Export(ctx context.Context, userID int64) (*dto.ExportResponse, error)
	Erase(ctx context.Context, userID int64) (*dto.ErasureResponse, error)
	Rectify(ctx context.Context, userID int64, req *dto.RectifyRequest) (*dto.StudentResponse, error)
	RecordConsent(ctx context.Context, userID int64, req *dto.ConsentRequest) error
}

type gdprService struct {
	users         erasureUserStore
	students      erasureStudentStore
	applications  erasureApplicationStore
	documents     erasureDocumentStore
	notifications erasureNotificationStore
	tokens        erasureTokenStore
	storage       filestorage.FileStorage
	audit         AuditService
	logger        zerolog.Logger
}

// NewGDPRService creates a new GDPRService
func NewGDPRService(
	users erasureUserStore,
	students erasureStudentStore,
	applications erasureApplicationStore,
	documents erasureDocumentStore,
	notifications erasureNotificationStore,
	tokens erasureTokenStore,
	storage filestorage.FileStorage,
	audit AuditService,
	logger zerolog.Logger,
) GDPRService {
	return &gdprService{
		users:         users,
		students:      students,
		applications:  applications,
		documents:     documents,
		notifications: notifications,
		tokens:        tokens,
		storage:       storage,
		audit:         audit,
		logger:        logger,
	}
}

// Export bundles every record held about the user into one response.
func (s *gdprService) Export(ctx context.Context, userID int64) (*dto.ExportResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	export := &dto.ExportResponse{
		GeneratedAt: time.Now(),
		User: map[string]interface{}{
			"id":        user.ID,
			"email":     user.Email,
			"role":      user.RoleType,
			"isActive":  user.IsActive,
			"createdAt": user.CreatedAt,
		},
		Applications:  []dto.ApplicationResponse{},
		Documents:     []dto.DocumentResponse{},
		Notifications: []dto.NotificationResponse{},
	}

	student, err := s.students.GetByUserID(ctx, userID)
	if err == nil {
		studentResp := dto.NewStudentResponse(student)
		export.Student = &studentResp

		applications, err := s.applications.ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		for i := range applications {
			export.Applications = append(export.Applications, dto.NewApplicationResponse(&applications[i]))
		}

		documents, err := s.documents.ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		for i := range documents {
			export.Documents = append(export.Documents, dto.NewDocumentResponse(&documents[i]))
		}
	} else if !errors.Is(err, apperrors.ErrStudentNotFound) {
		return nil, err
	}

	notifications, _, err := s.notifications.ListByUser(ctx, userID, false, 0, 1000)
	if err != nil {
		return nil, err
	}
	for i := range notifications {
		export.Notifications = append(export.Notifications, dto.NewNotificationResponse(&notifications[i]))
	}

	s.audit.Record(userID, "gdpr.export", "user", &userID, nil, nil)
	return export, nil
}

// Erase anonymizes the account. Blocked while any application is still
// active: the scholarship provider must keep the record until the workflow
// finishes. Drafts and notifications are deleted outright, documents removed
// from disk, and the audit trail scrubbed of personal values.
func (s *gdprService) Erase(ctx context.Context, userID int64) (*dto.ErasureResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	result := &dto.ErasureResponse{UserID: userID}

	student, err := s.students.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		applications, err := s.applications.ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		for i := range applications {
			if applications[i].Status.IsActive() {
				return nil, apperrors.ErrErasureBlocked
			}
		}

		drafts, err := s.applications.DeleteDrafts(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		result.DraftsRemoved = drafts

		paths, err := s.documents.DeleteByStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			if err := s.storage.DeleteFile(path); err != nil {
				s.logger.Warn().Err(err).Str("path", path).Msg("Failed to delete document file during erasure")
			}
		}

		if err := s.students.AnonymizeStudent(ctx, student.ID); err != nil {
			return nil, err
		}
	case errors.Is(err, apperrors.ErrStudentNotFound):
		// Review-side accounts have no profile to scrub
	default:
		return nil, err
	}

	removed, err := s.notifications.DeleteByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result.NotificationsRemoved = removed

	if err := s.users.AnonymizeUser(ctx, userID); err != nil {
		return nil, err
	}
	result.Anonymized = true

	if err := s.tokens.RevokeAllUserTokens(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens during erasure")
	}

	if err := s.audit.ScrubUser(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to scrub audit trail during erasure")
	}
	s.audit.Record(userID, "gdpr.erase", "user", &userID, nil, nil)

	s.logger.Info().Int64("userID", userID).
		Int64("draftsRemoved", result.DraftsRemoved).
		Int64("notificationsRemoved", result.NotificationsRemoved).
		Msg("User data erased")
	return result, nil
}

// Rectify corrects profile fields under GDPR rectification. Unlike a plain
// profile edit, every applied change is written to the audit log with its
// old value.
func (s *gdprService) Rectify(ctx context.Context, userID int64, req *dto.RectifyRequest) (*dto.StudentResponse, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields, err := buildProfileFields(&req.Fields)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, apperrors.NewBadRequestError("no fields to rectify")
	}

	oldValues := make(map[string]interface{}, len(fields))
	for column := range fields {
		oldValues[column] = profileColumnValue(student, column)
	}

	if err := s.students.UpdateProfile(ctx, student.ID, fields); err != nil {
		return nil, err
	}
	s.audit.Record(userID, "gdpr.rectify", "student", &student.ID, oldValues, fields)

	updated, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudentResponse(updated)
	return &resp, nil
}

// profileColumnValue reads the current value of a profile column off the
// loaded student, so the rectification audit entry carries what was
// overwritten.
func profileColumnValue(s *models.Student, column string) interface{} {
	switch column {
	case "first_name":
		return s.FirstName
	case "last_name":
		return s.LastName
	case "date_of_birth":
		return s.DateOfBirth
	case "gender":
		return s.Gender
	case "phone":
		return s.Phone
	case "address":
		return s.Address
	case "city":
		return s.City
	case "state":
		return s.State
	case "pincode":
		return s.Pincode
	case "aadhar_number":
		return s.AadharNumber
	case "pan_number":
		return s.PanNumber
	case "father_name":
		return s.FatherName
	case "mother_name":
		return s.MotherName
	case "family_income":
		return s.FamilyIncome
	}
	return nil
}

// RecordConsent writes a consent grant or withdrawal to the audit trail.
func (s *gdprService) RecordConsent(ctx context.Context, userID int64, req *dto.ConsentRequest) error {
	s.audit.Record(userID, "gdpr.consent", "user", &userID, nil,
		map[string]interface{}{"purpose": req.Purpose, "granted": req.Granted})
	return nil
}
