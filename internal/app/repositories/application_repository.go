package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/logger"
)

// ApplicationRepository handles database operations for the application
// review workflow. The applications table is the authoritative record;
// everything else (notifications, audit trail, snapshots) hangs off it.
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var applicationColumns = []string{
	"a.id", "a.student_id", "a.scholarship_id", "a.status", "a.application_data",
	"a.submitted_at", "a.reviewed_at", "a.approved_at", "a.rejected_at",
	"a.reviewer_notes", "a.admin_notes", "a.score", "a.awarded_amount",
	"a.version", "a.created_at", "a.updated_at",
}

func scanApplication(row pgx.Row, extraDest ...interface{}) (*models.Application, error) {
	var app models.Application
	var data []byte
	dest := []interface{}{
		&app.ID, &app.StudentID, &app.ScholarshipID, &app.Status, &data,
		&app.SubmittedAt, &app.ReviewedAt, &app.ApprovedAt, &app.RejectedAt,
		&app.ReviewerNotes, &app.AdminNotes, &app.Score, &app.AwardedAmount,
		&app.Version, &app.CreatedAt, &app.UpdatedAt,
	}
	dest = append(dest, extraDest...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &app.Data); err != nil {
			return nil, fmt.Errorf("failed to decode application data: %w", err)
		}
	}
	return &app, nil
}

// Create inserts a new application and sets its ID. Runs inside the caller's
// transaction so the capacity increment and the insert commit together.
func (r *ApplicationRepository) Create(ctx context.Context, tx pgx.Tx, app *models.Application) error {
	data, err := json.Marshal(app.Data)
	if err != nil {
		return fmt.Errorf("failed to encode application data: %w", err)
	}

	sql, args, err := r.sb.Insert("applications").
		Columns("student_id", "scholarship_id", "status", "application_data", "submitted_at").
		Values(app.StudentID, app.ScholarshipID, app.Status, data, app.SubmittedAt).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	err = tx.QueryRow(ctx, sql, args...).Scan(&app.ID, &app.Version, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", app.StudentID).Int64("scholarshipID", app.ScholarshipID).Msg("Error inserting application")
		return fmt.Errorf("error creating application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID without relations.
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).
		From("applications a").
		Where(squirrel.Eq{"a.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	app, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application ID=%d: %w", id, err)
	}

	return app, nil
}

// GetWithRelations retrieves an application with its student, scholarship,
// documents and payments attached.
func (r *ApplicationRepository) GetWithRelations(ctx context.Context, id int64) (*models.Application, error) {
	sql, args, err := r.sb.Select(append(applicationColumns,
		"s.user_id", "s.first_name", "s.last_name", "s.is_verified",
		"u.email",
		"sc.title", "sc.amount", "sc.category", "sc.academic_year",
	)...).
		From("applications a").
		Join("students s ON a.student_id = s.id").
		Join("users u ON s.user_id = u.id").
		Join("scholarships sc ON a.scholarship_id = sc.id").
		Where(squirrel.Eq{"a.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get application with relations query: %w", err)
	}

	var userID int64
	var firstName, lastName, email, title, category, academicYear string
	var isVerified bool
	var amount float64

	app, err := scanApplication(r.db.QueryRow(ctx, sql, args...),
		&userID, &firstName, &lastName, &isVerified, &email,
		&title, &amount, &category, &academicYear,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application ID=%d: %w", id, err)
	}

	app.Student = &models.Student{
		ID:         app.StudentID,
		UserID:     userID,
		FirstName:  firstName,
		LastName:   lastName,
		IsVerified: isVerified,
		User:       &models.User{ID: userID, Email: email},
	}
	app.Scholarship = &models.Scholarship{
		ID:           app.ScholarshipID,
		Title:        title,
		Amount:       amount,
		Category:     category,
		AcademicYear: academicYear,
	}

	documents, err := r.getDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	app.Documents = documents

	payments, err := r.getPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	app.Payments = payments

	return app, nil
}

func (r *ApplicationRepository) getDocuments(ctx context.Context, applicationID int64) ([]models.Document, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, application_id, type, file_name, original_name,
		       file_path, file_size, mime_type, is_verified, verified_by,
		       verified_at, rejection_reason, created_at, updated_at
		FROM documents
		WHERE application_id = $1
		ORDER BY created_at
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("error querying application documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID, &doc.StudentID, &doc.ApplicationID, &doc.Type, &doc.FileName,
			&doc.OriginalName, &doc.FilePath, &doc.FileSize, &doc.MimeType,
			&doc.IsVerified, &doc.VerifiedBy, &doc.VerifiedAt, &doc.RejectionReason,
			&doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}

func (r *ApplicationRepository) getPayments(ctx context.Context, applicationID int64) ([]models.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, application_id, amount, status, payment_method, transaction_id,
		       payment_date, remarks, created_at, updated_at
		FROM payments
		WHERE application_id = $1
		ORDER BY created_at
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("error querying application payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.ApplicationID, &p.Amount, &p.Status, &p.PaymentMethod,
			&p.TransactionID, &p.PaymentDate, &p.Remarks, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// listQuery builds the paged listing query. Drafts have no submission
// timestamp yet, so ordering is submitted_at first with NULLS LAST and the id
// as a stable tie breaker.
func (r *ApplicationRepository) listQuery(filters map[string]interface{}, offset uint64, limit int) (string, []interface{}, error) {
	baseSelect := r.sb.Select(append(applicationColumns,
		"s.first_name", "s.last_name", "sc.title", "sc.amount",
		"COUNT(*) OVER() AS total_count",
	)...).
		From("applications a").
		Join("students s ON a.student_id = s.id").
		Join("scholarships sc ON a.scholarship_id = sc.id")

	whereCondition := squirrel.And{}
	if status, ok := filters["status"].(string); ok && status != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"a.status": status})
	}
	if studentID, ok := filters["student_id"].(int64); ok && studentID > 0 {
		whereCondition = append(whereCondition, squirrel.Eq{"a.student_id": studentID})
	}
	if scholarshipID, ok := filters["scholarship_id"].(int64); ok && scholarshipID > 0 {
		whereCondition = append(whereCondition, squirrel.Eq{"a.scholarship_id": scholarshipID})
	}
	if len(whereCondition) > 0 {
		baseSelect = baseSelect.Where(whereCondition)
	}

	return baseSelect.
		OrderBy("a.submitted_at DESC NULLS LAST", "a.id DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
}

// List retrieves applications with pagination and optional filters, joined
// with student and scholarship summaries for list rendering. Rows come back
// newest submission first.
func (r *ApplicationRepository) List(ctx context.Context, filters map[string]interface{}, offset uint64, limit int) ([]models.Application, int64, error) {
	sql, args, err := r.listQuery(filters, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying applications: %w", err)
	}
	defer rows.Close()

	var applications []models.Application
	var total int64
	for rows.Next() {
		var firstName, lastName, title string
		var amount float64
		app, err := scanApplication(rows, &firstName, &lastName, &title, &amount, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan application row: %w", err)
		}
		app.Student = &models.Student{ID: app.StudentID, FirstName: firstName, LastName: lastName}
		app.Scholarship = &models.Scholarship{ID: app.ScholarshipID, Title: title, Amount: amount}
		applications = append(applications, *app)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating application rows: %w", err)
	}

	return applications, total, nil
}

// HasActiveApplication reports whether the student already holds a live
// application (submitted, in review, on hold or approved) for the scholarship.
func (r *ApplicationRepository) HasActiveApplication(ctx context.Context, studentID, scholarshipID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE student_id = $1 AND scholarship_id = $2
			  AND status IN ('SUBMITTED', 'UNDER_REVIEW', 'ON_HOLD', 'APPROVED')
		)
	`, studentID, scholarshipID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking active application: %w", err)
	}
	return exists, nil
}

// CountActiveByStudent counts the student's live applications across all
// scholarships, used for the per-user application cap.
func (r *ApplicationRepository) CountActiveByStudent(ctx context.Context, studentID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM applications
		WHERE student_id = $1
		  AND status IN ('SUBMITTED', 'UNDER_REVIEW', 'ON_HOLD')
	`, studentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting active applications: %w", err)
	}
	return count, nil
}

// UpdateDraft replaces the form payload of a draft application.
func (r *ApplicationRepository) UpdateDraft(ctx context.Context, id int64, data models.ApplicationData) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode application data: %w", err)
	}

	sql, args, err := r.sb.Update("applications").
		SetMap(map[string]interface{}{
			"application_data": encoded,
			"updated_at":       time.Now(),
		}).
		Where(squirrel.Eq{"id": id, "status": models.StatusDraft}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update draft query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating draft ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}

	return nil
}

// Submit moves a draft to SUBMITTED inside the caller's transaction.
func (r *ApplicationRepository) Submit(ctx context.Context, tx pgx.Tx, id int64, submittedAt time.Time) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE applications
		SET status = $1, submitted_at = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, models.StatusSubmitted, submittedAt, id, models.StatusDraft)
	if err != nil {
		return fmt.Errorf("error submitting application ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}

	return nil
}

// ReviewUpdate carries the column changes of a review decision. ReviewedAt is
// set only on the first decision; later decisions leave the original review
// timestamp in place.
type ReviewUpdate struct {
	Status        models.ApplicationStatus
	ReviewerNotes *string
	AdminNotes    *string
	Score         *int
	AwardedAmount *float64
	ReviewedAt    *time.Time
	ApprovedAt    *time.Time
	RejectedAt    *time.Time
}

// ApplyReview writes a review decision guarded by the optimistic version
// token. A zero row count means another reviewer committed first and the
// caller gets ErrReviewConflict instead of a silent overwrite.
func (r *ApplicationRepository) ApplyReview(ctx context.Context, tx pgx.Tx, id int64, expectedVersion int, update ReviewUpdate) error {
	setMap := map[string]interface{}{
		"status":     update.Status,
		"version":    squirrel.Expr("version + 1"),
		"updated_at": time.Now(),
	}
	if update.ReviewedAt != nil {
		setMap["reviewed_at"] = update.ReviewedAt
	}
	if update.ReviewerNotes != nil {
		setMap["reviewer_notes"] = update.ReviewerNotes
	}
	if update.AdminNotes != nil {
		setMap["admin_notes"] = update.AdminNotes
	}
	if update.Score != nil {
		setMap["score"] = update.Score
	}
	if update.AwardedAmount != nil {
		setMap["awarded_amount"] = update.AwardedAmount
	}
	if update.ApprovedAt != nil {
		setMap["approved_at"] = update.ApprovedAt
	}
	if update.RejectedAt != nil {
		setMap["rejected_at"] = update.RejectedAt
	}

	sql, args, err := r.sb.Update("applications").
		SetMap(setMap).
		Where(squirrel.Eq{"id": id, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build apply review query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error executing apply review query")
		return fmt.Errorf("error applying review to application ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrReviewConflict
	}

	return nil
}

// DeleteDrafts removes a student's draft applications. Used by GDPR erasure;
// non-draft rows are never deleted.
func (r *ApplicationRepository) DeleteDrafts(ctx context.Context, studentID int64) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `
		DELETE FROM applications WHERE student_id = $1 AND status = $2
	`, studentID, models.StatusDraft)
	if err != nil {
		return 0, fmt.Errorf("error deleting drafts for student ID=%d: %w", studentID, err)
	}
	return cmdTag.RowsAffected(), nil
}

// ListByStudent retrieves every application of one student, newest first.
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Application, error) {
	sql, args, err := r.sb.Select(append(applicationColumns, "sc.title", "sc.amount")...).
		From("applications a").
		Join("scholarships sc ON a.scholarship_id = sc.id").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("a.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list by student query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying student applications: %w", err)
	}
	defer rows.Close()

	var applications []models.Application
	for rows.Next() {
		var title string
		var amount float64
		app, err := scanApplication(rows, &title, &amount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		app.Scholarship = &models.Scholarship{ID: app.ScholarshipID, Title: title, Amount: amount}
		applications = append(applications, *app)
	}

	return applications, rows.Err()
}
