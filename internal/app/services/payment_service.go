package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
)

// paymentTransitions is the disbursement lifecycle. FAILED payments may be
// retried back through PENDING.
var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending: {models.PaymentCompleted, models.PaymentFailed},
	models.PaymentFailed:  {models.PaymentPending},
}

func canTransitionPayment(from, to models.PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentService manages disbursement records. Stubs are created by the
// review workflow; this service only moves them through their lifecycle.
type PaymentService interface {
	Get(ctx context.Context, userID int64, role models.RoleType, id int64) (*dto.PaymentResponse, error)
	List(ctx context.Context, userID int64, role models.RoleType, filter *dto.PaymentFilterRequest) ([]dto.PaymentResponse, dto.PaginationInfo, error)
	UpdateStatus(ctx context.Context, adminID, id int64, req *dto.UpdatePaymentStatusRequest) (*dto.PaymentResponse, error)
}

type paymentService struct {
	repo        *repositories.PaymentRepository
	appRepo     *repositories.ApplicationRepository
	studentRepo *repositories.StudentRepository
	notifier    NotificationService
	audit       AuditService
	logger      zerolog.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	repo *repositories.PaymentRepository,
	appRepo *repositories.ApplicationRepository,
	studentRepo *repositories.StudentRepository,
	notifier NotificationService,
	audit AuditService,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		repo:        repo,
		appRepo:     appRepo,
		studentRepo: studentRepo,
		notifier:    notifier,
		audit:       audit,
		logger:      logger,
	}
}

// Get returns one payment. Students only see payments on their own
// applications.
func (s *paymentService) Get(ctx context.Context, userID int64, role models.RoleType, id int64) (*dto.PaymentResponse, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if role == models.RoleStudent {
		app, err := s.appRepo.GetByID(ctx, payment.ApplicationID)
		if err != nil {
			return nil, err
		}
		student, err := s.studentRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if app.StudentID != student.ID {
			return nil, apperrors.ErrPermissionDenied
		}
	}

	resp := dto.NewPaymentResponse(payment)
	return &resp, nil
}

// List returns a page of payments. Student callers are scoped to their own
// applications.
func (s *paymentService) List(ctx context.Context, userID int64, role models.RoleType, filter *dto.PaymentFilterRequest) ([]dto.PaymentResponse, dto.PaginationInfo, error) {
	filters := make(map[string]interface{})

	if role == models.RoleStudent {
		student, err := s.studentRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		filters["student_id"] = student.ID
	}
	if filter.ApplicationID != nil {
		filters["application_id"] = *filter.ApplicationID
	}
	if filter.Status != nil {
		filters["status"] = string(*filter.Status)
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	payments, total, err := s.repo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	responses := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, dto.NewPaymentResponse(&payments[i]))
	}

	return responses, helpers.NewPaginationInfo(total, filter.Page, filter.PageSize), nil
}

// UpdateStatus moves a payment through its lifecycle and notifies the student
// when the disbursement completes.
func (s *paymentService) UpdateStatus(ctx context.Context, adminID, id int64, req *dto.UpdatePaymentStatusRequest) (*dto.PaymentResponse, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransitionPayment(payment.Status, req.Status) {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("payment cannot move from %s to %s", payment.Status, req.Status))
	}
	if req.Status == models.PaymentCompleted && req.TransactionID == nil {
		return nil, apperrors.NewValidationError("transactionId is required to complete a payment")
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.PaymentMethod, req.TransactionID, req.Remarks); err != nil {
		return nil, err
	}
	s.audit.Record(adminID, "payment.update_status", "payment", &id,
		map[string]interface{}{"status": string(payment.Status)},
		map[string]interface{}{"status": string(req.Status)})

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status == models.PaymentCompleted {
		s.notifyCompletion(updated)
	}

	resp := dto.NewPaymentResponse(updated)
	return &resp, nil
}

func (s *paymentService) notifyCompletion(payment *models.Payment) {
	ctx := context.Background()
	app, err := s.appRepo.GetByID(ctx, payment.ApplicationID)
	if err != nil {
		s.logger.Error().Err(err).Int64("paymentID", payment.ID).Msg("Failed to resolve application for payment notification")
		return
	}
	student, err := s.studentRepo.GetByID(ctx, app.StudentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("paymentID", payment.ID).Msg("Failed to resolve student for payment notification")
		return
	}

	notifyAsync(s.notifier, s.logger, student.UserID,
		"Scholarship disbursed",
		fmt.Sprintf("A payment of %.2f has been disbursed for your application.", payment.Amount),
		models.NotificationSuccess,
		map[string]interface{}{"paymentId": payment.ID, "applicationId": payment.ApplicationID})
}
