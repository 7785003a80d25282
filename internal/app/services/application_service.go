package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/config"
	"github.com/vidyadaan/scholarhub/internal/db"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
)

// Narrow store interfaces keep the workflow service testable without a
// database. The concrete repositories satisfy them.

type applicationStore interface {
	Create(ctx context.Context, tx pgx.Tx, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	GetWithRelations(ctx context.Context, id int64) (*models.Application, error)
	List(ctx context.Context, filters map[string]interface{}, offset uint64, limit int) ([]models.Application, int64, error)
	HasActiveApplication(ctx context.Context, studentID, scholarshipID int64) (bool, error)
	CountActiveByStudent(ctx context.Context, studentID int64) (int, error)
	UpdateDraft(ctx context.Context, id int64, data models.ApplicationData) error
	Submit(ctx context.Context, tx pgx.Tx, id int64, submittedAt time.Time) error
	ApplyReview(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error
}

type scholarshipStore interface {
	GetByID(ctx context.Context, id int64) (*models.Scholarship, error)
	IncrementApplications(ctx context.Context, tx pgx.Tx, id int64) error
}

type studentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

type paymentStore interface {
	Create(ctx context.Context, tx pgx.Tx, payment *models.Payment) error
}

type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// ApplicationService implements the submission and review workflow. Every
// state change goes through the relational store first; notifications,
// payments stubs and audit records hang off the committed write.
type ApplicationService interface {
	Create(ctx context.Context, userID int64, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)
	UpdateDraft(ctx context.Context, userID, id int64, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error)
	Submit(ctx context.Context, userID, id int64) (*dto.ApplicationResponse, error)
	Review(ctx context.Context, reviewerID int64, role models.RoleType, id int64, req *dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error)
	Get(ctx context.Context, userID int64, role models.RoleType, id int64) (*dto.ApplicationResponse, error)
	List(ctx context.Context, userID int64, role models.RoleType, filter *dto.ApplicationFilterRequest) (*dto.ApplicationListResponse, error)
}

type applicationService struct {
	applications applicationStore
	scholarships scholarshipStore
	students     studentStore
	payments     paymentStore
	tx           txRunner
	notifier     NotificationService
	audit        AuditService
	cfg          *config.Config
	logger       zerolog.Logger
	now          func() time.Time
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	applications applicationStore,
	scholarships scholarshipStore,
	students studentStore,
	payments paymentStore,
	tx txRunner,
	notifier NotificationService,
	audit AuditService,
	cfg *config.Config,
	logger zerolog.Logger,
) ApplicationService {
	return &applicationService{
		applications: applications,
		scholarships: scholarships,
		students:     students,
		payments:     payments,
		tx:           tx,
		notifier:     notifier,
		audit:        audit,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Create starts a new application for the calling student. Submit=true runs
// the full submission checks in one step; otherwise the application stays in
// DRAFT and only the window and duplicate rules apply.
func (s *applicationService) Create(ctx context.Context, userID int64, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cfg.Limits.RequireVerifiedStudent && !student.IsVerified {
		return nil, apperrors.ErrStudentNotVerified
	}

	scholarship, err := s.scholarships.GetByID(ctx, req.ScholarshipID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !scholarship.IsOpen(now) {
		return nil, apperrors.ErrScholarshipClosed
	}

	duplicate, err := s.applications.HasActiveApplication(ctx, student.ID, scholarship.ID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, apperrors.ErrDuplicateApplication
	}

	if req.Submit {
		if err := s.checkSubmissionRules(ctx, student, scholarship, &req.ApplicationData); err != nil {
			return nil, err
		}
	}

	app := &models.Application{
		StudentID:     student.ID,
		ScholarshipID: scholarship.ID,
		Status:        models.StatusDraft,
		Data:          req.ApplicationData,
	}
	if req.Submit {
		app.Status = models.StatusSubmitted
		submittedAt := now
		app.SubmittedAt = &submittedAt
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if req.Submit {
			// The increment re-checks capacity atomically, so two racing
			// submissions can't overshoot the cap.
			if err := s.scholarships.IncrementApplications(ctx, tx, scholarship.ID); err != nil {
				return err
			}
		}
		return s.applications.Create(ctx, tx, app)
	})
	if err != nil {
		return nil, err
	}

	if req.Submit {
		s.afterSubmit(student, scholarship, app)
	}
	s.audit.Record(userID, "application.create", "application", &app.ID, nil,
		map[string]interface{}{"status": string(app.Status), "scholarshipId": scholarship.ID})

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

// UpdateDraft replaces the form payload of a DRAFT application.
func (s *applicationService) UpdateDraft(ctx context.Context, userID, id int64, req *dto.UpdateApplicationRequest) (*dto.ApplicationResponse, error) {
	app, _, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if app.Status != models.StatusDraft {
		return nil, apperrors.NewBadRequestError("only draft applications can be edited")
	}

	if err := s.applications.UpdateDraft(ctx, id, req.ApplicationData); err != nil {
		return nil, err
	}

	app.Data = req.ApplicationData
	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

// Submit moves the calling student's draft into the review queue.
func (s *applicationService) Submit(ctx context.Context, userID, id int64) (*dto.ApplicationResponse, error) {
	app, student, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(app.Status, models.StatusSubmitted) {
		return nil, apperrors.ErrInvalidTransition
	}

	scholarship, err := s.scholarships.GetByID(ctx, app.ScholarshipID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !scholarship.IsOpen(now) {
		return nil, apperrors.ErrScholarshipClosed
	}
	if err := s.checkSubmissionRules(ctx, student, scholarship, &app.Data); err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.scholarships.IncrementApplications(ctx, tx, scholarship.ID); err != nil {
			return err
		}
		return s.applications.Submit(ctx, tx, id, now)
	})
	if err != nil {
		return nil, err
	}

	app.Status = models.StatusSubmitted
	app.SubmittedAt = &now
	app.Version++

	s.afterSubmit(student, scholarship, app)
	s.audit.Record(userID, "application.submit", "application", &app.ID, nil,
		map[string]interface{}{"status": string(models.StatusSubmitted)})

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

// Review applies a reviewer decision. The write is guarded by the optimistic
// version token; on APPROVED a pending payment stub commits in the same
// transaction. Exactly one notification goes out per successful decision.
// Notes land in reviewer_notes or admin_notes depending on the caller's role.
func (s *applicationService) Review(ctx context.Context, reviewerID int64, role models.RoleType, id int64, req *dto.ReviewApplicationRequest) (*dto.ApplicationResponse, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := models.ApplicationStatus(req.Decision)
	if !models.CanTransition(app.Status, decision) {
		s.audit.RecordFailure(reviewerID, "application.review", "application", &app.ID)
		return nil, apperrors.ErrInvalidTransition
	}

	expectedVersion := app.Version
	if req.ExpectedVersion != nil {
		expectedVersion = *req.ExpectedVersion
	}

	scholarship, err := s.scholarships.GetByID(ctx, app.ScholarshipID)
	if err != nil {
		return nil, err
	}

	// Pre-review snapshot goes to the side store before the decision lands
	s.audit.Snapshot(app)

	now := s.now()
	update := repositories.ReviewUpdate{Status: decision}
	if app.ReviewedAt == nil {
		reviewedAt := now
		update.ReviewedAt = &reviewedAt
	}
	if req.Notes != "" {
		notes := req.Notes
		if role == models.RoleAdmin || role == models.RoleSuperAdmin {
			update.AdminNotes = &notes
		} else {
			update.ReviewerNotes = &notes
		}
	}
	if req.Score != nil {
		update.Score = req.Score
	}

	var awarded float64
	switch decision {
	case models.StatusApproved:
		approvedAt := now
		update.ApprovedAt = &approvedAt
		awarded = scholarship.Amount
		if req.AwardedAmount != nil {
			awarded = *req.AwardedAmount
		}
		update.AwardedAmount = &awarded
	case models.StatusRejected:
		rejectedAt := now
		update.RejectedAt = &rejectedAt
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.applications.ApplyReview(ctx, tx, id, expectedVersion, update); err != nil {
			return err
		}
		if decision == models.StatusApproved {
			payment := &models.Payment{
				ApplicationID: id,
				Amount:        awarded,
				Status:        models.PaymentPending,
			}
			return s.payments.Create(ctx, tx, payment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.Status = decision
	app.Version = expectedVersion + 1
	if update.ReviewedAt != nil {
		app.ReviewedAt = update.ReviewedAt
	}
	if update.ReviewerNotes != nil {
		app.ReviewerNotes = update.ReviewerNotes
	}
	if update.AdminNotes != nil {
		app.AdminNotes = update.AdminNotes
	}
	if update.Score != nil {
		app.Score = update.Score
	}
	if update.ApprovedAt != nil {
		app.ApprovedAt = update.ApprovedAt
		app.AwardedAmount = &awarded
	}
	if update.RejectedAt != nil {
		app.RejectedAt = update.RejectedAt
	}

	s.notifyDecision(app, scholarship, decision)
	s.audit.Record(reviewerID, "application.review", "application", &app.ID,
		map[string]interface{}{"status": string(app.Status)},
		map[string]interface{}{"decision": string(decision), "score": req.Score})

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

// Get returns one application. Students only see their own; review-side
// roles see everything with relations attached.
func (s *applicationService) Get(ctx context.Context, userID int64, role models.RoleType, id int64) (*dto.ApplicationResponse, error) {
	app, err := s.applications.GetWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}

	if role == models.RoleStudent {
		student, err := s.students.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if app.StudentID != student.ID {
			return nil, apperrors.ErrPermissionDenied
		}
	}

	resp := dto.NewApplicationResponse(app)
	return &resp, nil
}

// List returns a page of applications. Student callers are always scoped to
// their own rows regardless of the requested filter.
func (s *applicationService) List(ctx context.Context, userID int64, role models.RoleType, filter *dto.ApplicationFilterRequest) (*dto.ApplicationListResponse, error) {
	filters := make(map[string]interface{})

	if role == models.RoleStudent {
		student, err := s.students.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		filters["student_id"] = student.ID
	} else {
		if filter.StudentID != nil {
			filters["student_id"] = *filter.StudentID
		}
	}
	if filter.ScholarshipID != nil {
		filters["scholarship_id"] = *filter.ScholarshipID
	}
	if filter.Status != nil {
		if !filter.Status.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", *filter.Status))
		}
		filters["status"] = string(*filter.Status)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	applications, total, err := s.applications.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, dto.NewApplicationResponse(&applications[i]))
	}

	return &dto.ApplicationListResponse{
		Applications: responses,
		Pagination:   helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// checkSubmissionRules runs the submission-time gates: the per-user active
// application cap, a capacity pre-check and, when enforcement is on, the
// eligibility criteria evaluated against the submitted form.
func (s *applicationService) checkSubmissionRules(ctx context.Context, student *models.Student, scholarship *models.Scholarship, data *models.ApplicationData) error {
	active, err := s.applications.CountActiveByStudent(ctx, student.ID)
	if err != nil {
		return err
	}
	if s.cfg.Limits.MaxApplicationsPerUser > 0 && active >= s.cfg.Limits.MaxApplicationsPerUser {
		return apperrors.NewValidationError("active application limit reached")
	}

	if !scholarship.HasCapacity() {
		return apperrors.ErrScholarshipCapacityReached
	}

	if s.cfg.Limits.EnforceEligibility {
		if result := CheckEligibility(student, data, scholarship); !result.Eligible {
			return apperrors.ErrNotEligible
		}
	}

	return nil
}

// getOwned loads an application and verifies the calling user owns it.
func (s *applicationService) getOwned(ctx context.Context, userID, id int64) (*models.Application, *models.Student, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if app.StudentID != student.ID {
		return nil, nil, apperrors.ErrPermissionDenied
	}
	return app, student, nil
}

func (s *applicationService) afterSubmit(student *models.Student, scholarship *models.Scholarship, app *models.Application) {
	notifyAsync(s.notifier, s.logger, student.UserID,
		"Application submitted",
		fmt.Sprintf("Your application for %s has been submitted.", scholarship.Title),
		models.NotificationSuccess,
		map[string]interface{}{"applicationId": app.ID, "scholarshipId": scholarship.ID})
}

func (s *applicationService) notifyDecision(app *models.Application, scholarship *models.Scholarship, decision models.ApplicationStatus) {
	student, err := s.students.GetByID(context.Background(), app.StudentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("applicationID", app.ID).Msg("Failed to resolve student for decision notification")
		return
	}

	var title, message string
	nType := models.NotificationInfo
	switch decision {
	case models.StatusApproved:
		title = "Application approved"
		message = fmt.Sprintf("Congratulations! Your application for %s has been approved.", scholarship.Title)
		nType = models.NotificationSuccess
	case models.StatusRejected:
		title = "Application rejected"
		message = fmt.Sprintf("Your application for %s was not approved.", scholarship.Title)
		nType = models.NotificationError
	case models.StatusOnHold:
		title = "Application on hold"
		message = fmt.Sprintf("Your application for %s has been placed on hold.", scholarship.Title)
		nType = models.NotificationWarning
	case models.StatusUnderReview:
		title = "Application under review"
		message = fmt.Sprintf("Your application for %s is now under review.", scholarship.Title)
	}

	notifyAsync(s.notifier, s.logger, student.UserID, title, message, nType,
		map[string]interface{}{"applicationId": app.ID, "scholarshipId": scholarship.ID})
}
