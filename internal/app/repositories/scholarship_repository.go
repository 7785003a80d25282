package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/logger"
)

// ScholarshipRepository handles database operations for the scholarship catalog
type ScholarshipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewScholarshipRepository creates a new ScholarshipRepository
func NewScholarshipRepository(db *pgxpool.Pool) *ScholarshipRepository {
	return &ScholarshipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var scholarshipColumns = []string{
	"sc.id", "sc.title", "sc.description", "sc.eligibility_criteria", "sc.amount",
	"sc.max_amount", "sc.category", "sc.application_start_date", "sc.application_end_date",
	"sc.academic_year", "sc.max_applications", "sc.current_applications",
	"sc.documents_required", "sc.is_active", "sc.created_by", "sc.created_at", "sc.updated_at",
}

func scanScholarship(row pgx.Row, extraDest ...interface{}) (*models.Scholarship, error) {
	var sch models.Scholarship
	var docsRequired []byte
	dest := []interface{}{
		&sch.ID, &sch.Title, &sch.Description, &sch.EligibilityCriteria, &sch.Amount,
		&sch.MaxAmount, &sch.Category, &sch.ApplicationStartDate, &sch.ApplicationEndDate,
		&sch.AcademicYear, &sch.MaxApplications, &sch.CurrentApplications,
		&docsRequired, &sch.IsActive, &sch.CreatedBy, &sch.CreatedAt, &sch.UpdatedAt,
	}
	dest = append(dest, extraDest...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if len(docsRequired) > 0 {
		if err := json.Unmarshal(docsRequired, &sch.DocumentsRequired); err != nil {
			return nil, fmt.Errorf("failed to decode documents_required: %w", err)
		}
	}
	return &sch, nil
}

// Create inserts a new scholarship and sets its ID.
func (r *ScholarshipRepository) Create(ctx context.Context, sch *models.Scholarship) error {
	docsRequired, err := json.Marshal(sch.DocumentsRequired)
	if err != nil {
		return fmt.Errorf("failed to encode documents_required: %w", err)
	}

	sql, args, err := r.sb.Insert("scholarships").
		Columns(
			"title", "description", "eligibility_criteria", "amount", "max_amount",
			"category", "application_start_date", "application_end_date",
			"academic_year", "max_applications", "documents_required", "is_active", "created_by",
		).
		Values(
			sch.Title, sch.Description, sch.EligibilityCriteria, sch.Amount, sch.MaxAmount,
			sch.Category, sch.ApplicationStartDate, sch.ApplicationEndDate,
			sch.AcademicYear, sch.MaxApplications, docsRequired, sch.IsActive, sch.CreatedBy,
		).
		Suffix("RETURNING id, current_applications, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create scholarship query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&sch.ID, &sch.CurrentApplications, &sch.CreatedAt, &sch.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("title", sch.Title).Msg("Error inserting scholarship")
		return fmt.Errorf("error creating scholarship: %w", err)
	}

	logger.Info().Int64("scholarshipID", sch.ID).Str("title", sch.Title).Msg("Scholarship created")
	return nil
}

// GetByID retrieves a scholarship by ID
func (r *ScholarshipRepository) GetByID(ctx context.Context, id int64) (*models.Scholarship, error) {
	sql, args, err := r.sb.Select(scholarshipColumns...).
		From("scholarships sc").
		Where(squirrel.Eq{"sc.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get scholarship query: %w", err)
	}

	sch, err := scanScholarship(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScholarshipNotFound
		}
		return nil, fmt.Errorf("error retrieving scholarship ID=%d: %w", id, err)
	}

	return sch, nil
}

// List retrieves scholarships with pagination and optional filters.
// activeOnly restricts the catalog to rows students may see.
func (r *ScholarshipRepository) List(ctx context.Context, filters map[string]interface{}, activeOnly bool, offset uint64, limit int) ([]models.Scholarship, int64, error) {
	baseSelect := r.sb.Select(append(scholarshipColumns, "COUNT(*) OVER() AS total_count")...).
		From("scholarships sc")

	whereCondition := squirrel.And{}
	if activeOnly {
		whereCondition = append(whereCondition, squirrel.Eq{"sc.is_active": true})
	}
	if category, ok := filters["category"].(string); ok && category != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"sc.category": category})
	}
	if academicYear, ok := filters["academic_year"].(string); ok && academicYear != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"sc.academic_year": academicYear})
	}
	if search, ok := filters["search"].(string); ok && search != "" {
		pattern := "%" + strings.TrimSpace(search) + "%"
		whereCondition = append(whereCondition, squirrel.Or{
			squirrel.ILike{"sc.title": pattern},
			squirrel.ILike{"sc.description": pattern},
		})
	}
	if openAt, ok := filters["open_at"].(time.Time); ok {
		whereCondition = append(whereCondition,
			squirrel.LtOrEq{"sc.application_start_date": openAt},
			squirrel.GtOrEq{"sc.application_end_date": openAt},
		)
	}
	if len(whereCondition) > 0 {
		baseSelect = baseSelect.Where(whereCondition)
	}

	baseSelect = baseSelect.OrderBy("sc.application_end_date ASC").Limit(uint64(limit)).Offset(offset)

	sql, args, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list scholarships query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying scholarships: %w", err)
	}
	defer rows.Close()

	var scholarships []models.Scholarship
	var total int64
	for rows.Next() {
		sch, err := scanScholarship(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan scholarship row: %w", err)
		}
		scholarships = append(scholarships, *sch)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating scholarship rows: %w", err)
	}

	return scholarships, total, nil
}

// Update applies a partial update to a scholarship.
func (r *ScholarshipRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	sql, args, err := r.sb.Update("scholarships").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update scholarship query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("scholarshipID", id).Msg("Error executing update scholarship query")
		return fmt.Errorf("error updating scholarship ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrScholarshipNotFound
	}

	return nil
}

// Deactivate soft-deletes a scholarship from the catalog.
func (r *ScholarshipRepository) Deactivate(ctx context.Context, id int64) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": false})
}

// IncrementApplications bumps the submission counter while re-checking the
// cap inside the same statement, which keeps concurrent submissions from
// overshooting max_applications.
func (r *ScholarshipRepository) IncrementApplications(ctx context.Context, tx pgx.Tx, id int64) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE scholarships
		SET current_applications = current_applications + 1, updated_at = NOW()
		WHERE id = $1
		  AND (max_applications <= 0 OR current_applications < max_applications)
	`, id)
	if err != nil {
		return fmt.Errorf("error incrementing applications for scholarship ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrScholarshipCapacityReached
	}

	return nil
}

// DecrementApplications releases a slot when an active application is removed.
func (r *ScholarshipRepository) DecrementApplications(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE scholarships
		SET current_applications = GREATEST(current_applications - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("error decrementing applications for scholarship ID=%d: %w", id, err)
	}
	return nil
}

// GetStats aggregates application counts per status across all scholarships.
func (r *ScholarshipRepository) GetStats(ctx context.Context) (*models.ScholarshipStats, error) {
	stats := &models.ScholarshipStats{ByStatus: make(map[string]int64)}

	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM scholarships WHERE is_active = true`).
		Scan(&stats.TotalScholarships)
	if err != nil {
		return nil, fmt.Errorf("error counting scholarships: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*)
		FROM applications
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying application stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.ByStatus[status] = count
		stats.TotalApplications += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(awarded_amount), 0)
		FROM applications
		WHERE status = 'APPROVED' AND awarded_amount IS NOT NULL
	`).Scan(&stats.TotalAwarded)
	if err != nil {
		return nil, fmt.Errorf("error summing awarded amounts: %w", err)
	}

	return stats, nil
}

// GetApplicationCounts aggregates application counts per status for one
// scholarship.
func (r *ScholarshipRepository) GetApplicationCounts(ctx context.Context, scholarshipID int64) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*)
		FROM applications
		WHERE scholarship_id = $1
		GROUP BY status
	`, scholarshipID)
	if err != nil {
		return nil, fmt.Errorf("error querying application counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
