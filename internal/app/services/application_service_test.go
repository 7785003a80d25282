package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/config"
	"github.com/vidyadaan/scholarhub/internal/db"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
)

// Function-backed fakes for the workflow store interfaces. Only the methods a
// test wires up are callable; the rest return zero values.

type fakeApplicationStore struct {
	createFn         func(ctx context.Context, tx pgx.Tx, app *models.Application) error
	getByIDFn        func(ctx context.Context, id int64) (*models.Application, error)
	hasActiveFn      func(ctx context.Context, studentID, scholarshipID int64) (bool, error)
	countActiveFn    func(ctx context.Context, studentID int64) (int, error)
	submitFn         func(ctx context.Context, tx pgx.Tx, id int64, submittedAt time.Time) error
	applyReviewFn    func(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error
	updateDraftFn    func(ctx context.Context, id int64, data models.ApplicationData) error
	listFn           func(ctx context.Context, filters map[string]interface{}, offset uint64, limit int) ([]models.Application, int64, error)
	getRelationsFn   func(ctx context.Context, id int64) (*models.Application, error)
}

func (f *fakeApplicationStore) Create(ctx context.Context, tx pgx.Tx, app *models.Application) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, tx, app)
}

func (f *fakeApplicationStore) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeApplicationStore) GetWithRelations(ctx context.Context, id int64) (*models.Application, error) {
	return f.getRelationsFn(ctx, id)
}

func (f *fakeApplicationStore) List(ctx context.Context, filters map[string]interface{}, offset uint64, limit int) ([]models.Application, int64, error) {
	return f.listFn(ctx, filters, offset, limit)
}

func (f *fakeApplicationStore) HasActiveApplication(ctx context.Context, studentID, scholarshipID int64) (bool, error) {
	if f.hasActiveFn == nil {
		return false, nil
	}
	return f.hasActiveFn(ctx, studentID, scholarshipID)
}

func (f *fakeApplicationStore) CountActiveByStudent(ctx context.Context, studentID int64) (int, error) {
	if f.countActiveFn == nil {
		return 0, nil
	}
	return f.countActiveFn(ctx, studentID)
}

func (f *fakeApplicationStore) UpdateDraft(ctx context.Context, id int64, data models.ApplicationData) error {
	return f.updateDraftFn(ctx, id, data)
}

func (f *fakeApplicationStore) Submit(ctx context.Context, tx pgx.Tx, id int64, submittedAt time.Time) error {
	return f.submitFn(ctx, tx, id, submittedAt)
}

func (f *fakeApplicationStore) ApplyReview(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error {
	return f.applyReviewFn(ctx, tx, id, expectedVersion, update)
}

type fakeScholarshipStore struct {
	getByIDFn   func(ctx context.Context, id int64) (*models.Scholarship, error)
	incrementFn func(ctx context.Context, tx pgx.Tx, id int64) error
}

func (f *fakeScholarshipStore) GetByID(ctx context.Context, id int64) (*models.Scholarship, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeScholarshipStore) IncrementApplications(ctx context.Context, tx pgx.Tx, id int64) error {
	if f.incrementFn == nil {
		return nil
	}
	return f.incrementFn(ctx, tx, id)
}

type fakeStudentStore struct {
	byUserID func(ctx context.Context, userID int64) (*models.Student, error)
	byID     func(ctx context.Context, id int64) (*models.Student, error)
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return f.byID(ctx, id)
}

func (f *fakeStudentStore) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return f.byUserID(ctx, userID)
}

type fakePaymentStore struct {
	created []*models.Payment
	err     error
}

func (f *fakePaymentStore) Create(ctx context.Context, tx pgx.Tx, payment *models.Payment) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, payment)
	return nil
}

// fakeTx runs the transaction body directly with a nil pgx.Tx.
type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

type fakeNotifier struct {
	notified []string
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, userID int64, title, message string, nType models.NotificationType, data map[string]interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, title)
	return nil
}

func (f *fakeNotifier) List(ctx context.Context, userID int64, unreadOnly bool, page, limit int) ([]dto.NotificationResponse, dto.PaginationInfo, error) {
	return nil, dto.PaginationInfo{}, nil
}
func (f *fakeNotifier) UnreadCount(ctx context.Context, userID int64) (int64, error) { return 0, nil }
func (f *fakeNotifier) MarkRead(ctx context.Context, id, userID int64) error         { return nil }
func (f *fakeNotifier) MarkAllRead(ctx context.Context, userID int64) (int64, error) { return 0, nil }

type fakeAudit struct {
	records   []string
	oldValues []map[string]interface{}
	newValues []map[string]interface{}
	failures  []string
	snapshots []int64
}

func (f *fakeAudit) Record(userID int64, action, entity string, entityID *int64, oldValues, newValues map[string]interface{}) {
	f.records = append(f.records, action)
	f.oldValues = append(f.oldValues, oldValues)
	f.newValues = append(f.newValues, newValues)
}
func (f *fakeAudit) RecordFailure(userID int64, action, entity string, entityID *int64) {
	f.failures = append(f.failures, action)
}
func (f *fakeAudit) Snapshot(app *models.Application)  { f.snapshots = append(f.snapshots, app.ID) }
func (f *fakeAudit) MirrorDocument(doc *models.Document) {}
func (f *fakeAudit) ListLogs(ctx context.Context, userID int64, entity string, limit int64) ([]models.AuditLog, error) {
	return nil, nil
}
func (f *fakeAudit) ListApplicationVersions(ctx context.Context, applicationID int64) ([]models.ApplicationVersion, error) {
	return nil, nil
}
func (f *fakeAudit) ScrubUser(ctx context.Context, userID int64) error { return nil }

type workflowFixture struct {
	applications *fakeApplicationStore
	scholarships *fakeScholarshipStore
	students     *fakeStudentStore
	payments     *fakePaymentStore
	notifier     *fakeNotifier
	audit        *fakeAudit
	cfg          *config.Config
	service      ApplicationService
}

func newWorkflowFixture() *workflowFixture {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	student := &models.Student{ID: 10, UserID: 100, IsVerified: true}
	scholarship := &models.Scholarship{
		ID:                   20,
		Title:                "Merit Scholarship",
		Amount:               50000,
		ApplicationStartDate: now.AddDate(0, -1, 0),
		ApplicationEndDate:   now.AddDate(0, 1, 0),
		MaxApplications:      100,
		CurrentApplications:  5,
		IsActive:             true,
	}

	f := &workflowFixture{
		applications: &fakeApplicationStore{},
		scholarships: &fakeScholarshipStore{
			getByIDFn: func(ctx context.Context, id int64) (*models.Scholarship, error) {
				if id != scholarship.ID {
					return nil, apperrors.ErrScholarshipNotFound
				}
				copied := *scholarship
				return &copied, nil
			},
		},
		students: &fakeStudentStore{
			byUserID: func(ctx context.Context, userID int64) (*models.Student, error) {
				if userID != student.UserID {
					return nil, apperrors.ErrStudentNotFound
				}
				copied := *student
				return &copied, nil
			},
			byID: func(ctx context.Context, id int64) (*models.Student, error) {
				if id != student.ID {
					return nil, apperrors.ErrStudentNotFound
				}
				copied := *student
				return &copied, nil
			},
		},
		payments: &fakePaymentStore{},
		notifier: &fakeNotifier{},
		audit:    &fakeAudit{},
		cfg:      &config.Config{},
	}
	f.cfg.Limits.MaxApplicationsPerUser = 10

	svc := NewApplicationService(
		f.applications, f.scholarships, f.students, f.payments,
		fakeTx{}, f.notifier, f.audit, f.cfg, zerolog.Nop(),
	).(*applicationService)
	svc.now = func() time.Time { return now }
	f.service = svc
	return f
}

func TestCreateApplication(t *testing.T) {
	t.Run("draft created when submit is false", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.createFn = func(ctx context.Context, tx pgx.Tx, app *models.Application) error {
			app.ID = 1
			app.Version = 1
			return nil
		}

		resp, err := f.service.Create(context.Background(), 100, &dto.CreateApplicationRequest{ScholarshipID: 20})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if resp.Status != models.StatusDraft {
			t.Errorf("status = %s, want DRAFT", resp.Status)
		}
		if resp.SubmittedAt != nil {
			t.Error("draft should not carry a submission timestamp")
		}
		if len(f.notifier.notified) != 0 {
			t.Errorf("draft creation sent %d notifications, want 0", len(f.notifier.notified))
		}
	})

	t.Run("immediate submit increments capacity and notifies", func(t *testing.T) {
		f := newWorkflowFixture()
		incremented := false
		f.scholarships.incrementFn = func(ctx context.Context, tx pgx.Tx, id int64) error {
			incremented = true
			return nil
		}
		f.applications.createFn = func(ctx context.Context, tx pgx.Tx, app *models.Application) error {
			if app.Status != models.StatusSubmitted {
				t.Errorf("persisted status = %s, want SUBMITTED", app.Status)
			}
			if app.SubmittedAt == nil {
				t.Error("submitted application missing submission timestamp")
			}
			app.ID = 1
			app.Version = 1
			return nil
		}

		_, err := f.service.Create(context.Background(), 100, &dto.CreateApplicationRequest{ScholarshipID: 20, Submit: true})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if !incremented {
			t.Error("submission did not increment the scholarship counter")
		}
		if len(f.notifier.notified) != 1 {
			t.Errorf("got %d notifications, want 1", len(f.notifier.notified))
		}
	})

	t.Run("unknown scholarship", func(t *testing.T) {
		f := newWorkflowFixture()
		_, err := f.service.Create(context.Background(), 100, &dto.CreateApplicationRequest{ScholarshipID: 999})
		if !errors.Is(err, apperrors.ErrScholarshipNotFound) {
			t.Errorf("err = %v, want ErrScholarshipNotFound", err)
		}
	})

	t.Run("closed window rejected", func(t *testing.T) {
		f := newWorkflowFixture()
		f.scholarships.getByIDFn = func(ctx context.Context, id int64) (*models.Scholarship, error) {
			return &models.Scholarship{
				ID:                   20,
				IsActive:             true,
				ApplicationStartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
				ApplicationEndDate:   time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		}
		_, err := f.service.Create(context.Background(), 100, &dto.CreateApplicationRequest{ScholarshipID: 20})
		if !errors.Is(err, apperrors.ErrScholarshipClosed) {
			t.Errorf("err = %v, want ErrScholarshipClosed", err)
		}
	})

	t.Run("duplicate active application rejected", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.hasActiveFn = func(ctx context.Context, studentID, scholarshipID int64) (bool, error) {
			return true, nil
		}
		_, err := f.service.Create(context.Background(), 100, &dto.CreateApplicationRequest{ScholarshipID: 20})
		if !errors.Is(err, apperrors.ErrDuplicateApplication) {
			t.Errorf("err = %v, want ErrDuplicateApplication", err)
		}
	})

	t.Run("capacity race surfaces from the transactional increment", func(t *testing.T) {
		f := newWorkflowFixture()
		f.scholarships.incrementFn = func(ctx context.Context, tx pgx.Tx, id int64) error {
			return apperrors.ErrScholarshipCapacityReached
		}
		_, err := f.service.Create(context.Background(), 100, &dto.CreateApplicationRequest{ScholarshipID: 20, Submit: true})
		if !errors.Is(err, apperrors.ErrScholarshipCapacityReached) {
			t.Errorf("err = %v, want ErrScholarshipCapacityReached", err)
		}
	})

	t.Run("unverified student blocked when verification is required", func(t *testing.T) {
		f := newWorkflowFixture()
		f.cfg.Limits.RequireVerifiedStudent = true
		f.students.byUserID = func(ctx context.Context, userID int64) (*models.Student, error) {
			return &models.Student{ID: 10, UserID: 100, IsVerified: false}, nil
		}
		_, err := f.service.Create(context.Background(), 100, &dto.CreateApplicationRequest{ScholarshipID: 20, Submit: true})
		if !errors.Is(err, apperrors.ErrStudentNotVerified) {
			t.Errorf("err = %v, want ErrStudentNotVerified", err)
		}
	})

	t.Run("eligibility blocks only when enforced", func(t *testing.T) {
		f := newWorkflowFixture()
		f.cfg.Limits.EnforceEligibility = true
		f.students.byUserID = func(ctx context.Context, userID int64) (*models.Student, error) {
			return &models.Student{ID: 10, UserID: 100, IsVerified: true, FamilyIncome: floatPtr(900000)}, nil
		}
		base := f.scholarships.getByIDFn
		f.scholarships.getByIDFn = func(ctx context.Context, id int64) (*models.Scholarship, error) {
			sch, err := base(ctx, id)
			if err != nil {
				return nil, err
			}
			sch.EligibilityCriteria = []byte(`{"maxFamilyIncome": 300000}`)
			return sch, nil
		}

		_, err := f.service.Create(context.Background(), 100, &dto.CreateApplicationRequest{ScholarshipID: 20, Submit: true})
		if !errors.Is(err, apperrors.ErrNotEligible) {
			t.Errorf("enforced: err = %v, want ErrNotEligible", err)
		}

		f.cfg.Limits.EnforceEligibility = false
		f.applications.createFn = func(ctx context.Context, tx pgx.Tx, app *models.Application) error {
			app.ID = 1
			app.Version = 1
			return nil
		}
		if _, err := f.service.Create(context.Background(), 100, &dto.CreateApplicationRequest{ScholarshipID: 20, Submit: true}); err != nil {
			t.Errorf("advisory: err = %v, want nil", err)
		}
	})
}

func TestSubmitApplication(t *testing.T) {
	draft := func() *models.Application {
		return &models.Application{ID: 1, StudentID: 10, ScholarshipID: 20, Status: models.StatusDraft, Version: 1}
	}

	t.Run("draft submits", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			return draft(), nil
		}
		f.applications.submitFn = func(ctx context.Context, tx pgx.Tx, id int64, submittedAt time.Time) error {
			return nil
		}

		resp, err := f.service.Submit(context.Background(), 100, 1)
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if resp.Status != models.StatusSubmitted {
			t.Errorf("status = %s, want SUBMITTED", resp.Status)
		}
		if resp.Version != 2 {
			t.Errorf("version = %d, want 2", resp.Version)
		}
	})

	t.Run("already submitted cannot submit again", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			app := draft()
			app.Status = models.StatusSubmitted
			return app, nil
		}
		_, err := f.service.Submit(context.Background(), 100, 1)
		if !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("err = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("someone else's draft is forbidden", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			app := draft()
			app.StudentID = 77
			return app, nil
		}
		_, err := f.service.Submit(context.Background(), 100, 1)
		if !errors.Is(err, apperrors.ErrPermissionDenied) {
			t.Errorf("err = %v, want ErrPermissionDenied", err)
		}
	})
}

func TestReviewApplication(t *testing.T) {
	underReview := func() *models.Application {
		return &models.Application{ID: 1, StudentID: 10, ScholarshipID: 20, Status: models.StatusUnderReview, Version: 3}
	}

	t.Run("approval creates a pending payment stub and notifies once", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			return underReview(), nil
		}
		var gotVersion int
		f.applications.applyReviewFn = func(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error {
			gotVersion = expectedVersion
			if update.Status != models.StatusApproved {
				t.Errorf("update status = %s, want APPROVED", update.Status)
			}
			if update.ApprovedAt == nil {
				t.Error("approval missing approvedAt")
			}
			return nil
		}

		awarded := 45000.0
		resp, err := f.service.Review(context.Background(), 200, models.RoleReviewer, 1, &dto.ReviewApplicationRequest{
			Decision:      string(models.StatusApproved),
			AwardedAmount: &awarded,
		})
		if err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if gotVersion != 3 {
			t.Errorf("expected version sent to store = %d, want current version 3", gotVersion)
		}
		if resp.Version != 4 {
			t.Errorf("response version = %d, want 4", resp.Version)
		}
		if len(f.payments.created) != 1 {
			t.Fatalf("payments created = %d, want 1", len(f.payments.created))
		}
		payment := f.payments.created[0]
		if payment.Status != models.PaymentPending {
			t.Errorf("payment status = %s, want PENDING", payment.Status)
		}
		if payment.Amount != awarded {
			t.Errorf("payment amount = %v, want %v", payment.Amount, awarded)
		}
		if len(f.notifier.notified) != 1 {
			t.Errorf("notifications = %d, want exactly 1", len(f.notifier.notified))
		}
		if len(f.audit.snapshots) != 1 {
			t.Errorf("snapshots = %d, want 1 pre-review snapshot", len(f.audit.snapshots))
		}
	})

	t.Run("approval without explicit amount falls back to the scholarship amount", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			return underReview(), nil
		}
		f.applications.applyReviewFn = func(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error {
			return nil
		}

		_, err := f.service.Review(context.Background(), 200, models.RoleReviewer, 1, &dto.ReviewApplicationRequest{
			Decision: string(models.StatusApproved),
		})
		if err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if len(f.payments.created) != 1 || f.payments.created[0].Amount != 50000 {
			t.Errorf("payment amount should default to scholarship amount 50000, got %+v", f.payments.created)
		}
	})

	t.Run("rejection creates no payment", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			return underReview(), nil
		}
		f.applications.applyReviewFn = func(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error {
			if update.RejectedAt == nil {
				t.Error("rejection missing rejectedAt")
			}
			return nil
		}

		resp, err := f.service.Review(context.Background(), 200, models.RoleReviewer, 1, &dto.ReviewApplicationRequest{
			Decision: string(models.StatusRejected),
			Notes:    "incomplete documents",
		})
		if err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if resp.Status != models.StatusRejected {
			t.Errorf("status = %s, want REJECTED", resp.Status)
		}
		if len(f.payments.created) != 0 {
			t.Errorf("rejection created %d payments, want 0", len(f.payments.created))
		}
	})

	t.Run("terminal application cannot be re-reviewed", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			app := underReview()
			app.Status = models.StatusApproved
			return app, nil
		}
		_, err := f.service.Review(context.Background(), 200, models.RoleReviewer, 1, &dto.ReviewApplicationRequest{
			Decision: string(models.StatusRejected),
		})
		if !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("err = %v, want ErrInvalidTransition", err)
		}
		if len(f.audit.failures) != 1 {
			t.Errorf("audit failures = %d, want 1", len(f.audit.failures))
		}
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			return underReview(), nil
		}
		f.applications.applyReviewFn = func(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error {
			if expectedVersion != 2 {
				t.Errorf("expectedVersion = %d, want caller-provided 2", expectedVersion)
			}
			return apperrors.ErrReviewConflict
		}

		stale := 2
		_, err := f.service.Review(context.Background(), 200, models.RoleReviewer, 1, &dto.ReviewApplicationRequest{
			Decision:        string(models.StatusApproved),
			ExpectedVersion: &stale,
		})
		if !errors.Is(err, apperrors.ErrReviewConflict) {
			t.Errorf("err = %v, want ErrReviewConflict", err)
		}
		if len(f.payments.created) != 0 {
			t.Error("conflicting review must not create a payment")
		}
		if len(f.notifier.notified) != 0 {
			t.Error("conflicting review must not notify")
		}
	})

	t.Run("notification failure does not fail the review", func(t *testing.T) {
		f := newWorkflowFixture()
		f.notifier.err = errors.New("inbox down")
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			return underReview(), nil
		}
		f.applications.applyReviewFn = func(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error {
			return nil
		}

		if _, err := f.service.Review(context.Background(), 200, models.RoleReviewer, 1, &dto.ReviewApplicationRequest{
			Decision: string(models.StatusApproved),
		}); err != nil {
			t.Fatalf("Review() error = %v, want nil despite notification failure", err)
		}
	})

	t.Run("notes land in the column matching the reviewing role", func(t *testing.T) {
		cases := []struct {
			role      models.RoleType
			wantAdmin bool
		}{
			{models.RoleReviewer, false},
			{models.RoleAdmin, true},
			{models.RoleSuperAdmin, true},
		}
		for _, tc := range cases {
			f := newWorkflowFixture()
			f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
				return underReview(), nil
			}
			var got repositories.ReviewUpdate
			f.applications.applyReviewFn = func(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error {
				got = update
				return nil
			}

			resp, err := f.service.Review(context.Background(), 200, tc.role, 1, &dto.ReviewApplicationRequest{
				Decision: string(models.StatusOnHold),
				Notes:    "needs an income certificate",
			})
			if err != nil {
				t.Fatalf("%s: Review() error = %v", tc.role, err)
			}
			if tc.wantAdmin {
				if got.AdminNotes == nil || got.ReviewerNotes != nil {
					t.Errorf("%s: notes = {reviewer:%v admin:%v}, want admin column only", tc.role, got.ReviewerNotes, got.AdminNotes)
				}
				if resp.AdminNotes == nil {
					t.Errorf("%s: response missing admin notes", tc.role)
				}
			} else {
				if got.ReviewerNotes == nil || got.AdminNotes != nil {
					t.Errorf("%s: notes = {reviewer:%v admin:%v}, want reviewer column only", tc.role, got.ReviewerNotes, got.AdminNotes)
				}
				if resp.ReviewerNotes == nil {
					t.Errorf("%s: response missing reviewer notes", tc.role)
				}
			}
		}
	})

	t.Run("first review timestamp survives later decisions", func(t *testing.T) {
		f := newWorkflowFixture()
		firstReview := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			app := underReview()
			app.ReviewedAt = &firstReview
			return app, nil
		}
		f.applications.applyReviewFn = func(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error {
			if update.ReviewedAt != nil {
				t.Errorf("second decision overwrote reviewed_at with %v", update.ReviewedAt)
			}
			return nil
		}

		resp, err := f.service.Review(context.Background(), 200, models.RoleReviewer, 1, &dto.ReviewApplicationRequest{
			Decision: string(models.StatusApproved),
		})
		if err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if resp.ReviewedAt == nil || !resp.ReviewedAt.Equal(firstReview) {
			t.Errorf("reviewedAt = %v, want original %v", resp.ReviewedAt, firstReview)
		}
	})

	t.Run("first decision stamps reviewed_at", func(t *testing.T) {
		f := newWorkflowFixture()
		f.applications.getByIDFn = func(ctx context.Context, id int64) (*models.Application, error) {
			return underReview(), nil
		}
		f.applications.applyReviewFn = func(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update repositories.ReviewUpdate) error {
			if update.ReviewedAt == nil {
				t.Error("first decision did not set reviewed_at")
			}
			return nil
		}

		resp, err := f.service.Review(context.Background(), 200, models.RoleReviewer, 1, &dto.ReviewApplicationRequest{
			Decision: string(models.StatusOnHold),
		})
		if err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if resp.ReviewedAt == nil {
			t.Error("response missing reviewedAt after first decision")
		}
	})
}

func TestListApplicationsScoping(t *testing.T) {
	f := newWorkflowFixture()
	var gotFilters map[string]interface{}
	f.applications.listFn = func(ctx context.Context, filters map[string]interface{}, offset uint64, limit int) ([]models.Application, int64, error) {
		gotFilters = filters
		return []models.Application{{ID: 1, StudentID: 10, ScholarshipID: 20, Status: models.StatusSubmitted, Version: 2}}, 1, nil
	}

	otherStudent := int64(99)
	resp, err := f.service.List(context.Background(), 100, models.RoleStudent, &dto.ApplicationFilterRequest{
		StudentID: &otherStudent,
		Page:      1,
		PageSize:  10,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gotFilters["student_id"] != int64(10) {
		t.Errorf("student filter = %v, want caller's own student id 10", gotFilters["student_id"])
	}
	if resp.Pagination.HasNext {
		t.Error("single page should not report a next page")
	}

	status := models.StatusSubmitted
	if _, err := f.service.List(context.Background(), 200, models.RoleAdmin, &dto.ApplicationFilterRequest{
		StudentID: &otherStudent,
		Status:    &status,
		Page:      1,
		PageSize:  10,
	}); err != nil {
		t.Fatalf("admin List() error = %v", err)
	}
	if gotFilters["student_id"] != int64(99) {
		t.Errorf("admin student filter = %v, want 99", gotFilters["student_id"])
	}
	if gotFilters["status"] != string(models.StatusSubmitted) {
		t.Errorf("status filter = %v, want SUBMITTED", gotFilters["status"])
	}
}
