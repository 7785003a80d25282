package repositories

import (
	"context"
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

// StudentRepository handles database operations for student profiles
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var studentColumns = []string{
	"s.id", "s.user_id", "s.first_name", "s.last_name", "s.date_of_birth",
	"s.gender", "s.phone", "s.address", "s.city", "s.state", "s.pincode",
	"s.aadhar_number", "s.pan_number", "s.father_name", "s.mother_name",
	"s.family_income", "s.is_verified", "s.created_at", "s.updated_at",
}

func scanStudent(row pgx.Row, extraDest ...interface{}) (*models.Student, error) {
	var student models.Student
	dest := []interface{}{
		&student.ID, &student.UserID, &student.FirstName, &student.LastName,
		&student.DateOfBirth, &student.Gender, &student.Phone, &student.Address,
		&student.City, &student.State, &student.Pincode, &student.AadharNumber,
		&student.PanNumber, &student.FatherName, &student.MotherName,
		&student.FamilyIncome, &student.IsVerified, &student.CreatedAt, &student.UpdatedAt,
	}
	dest = append(dest, extraDest...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student profile and sets its ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "first_name", "last_name").
		Values(student.UserID, student.FirstName, student.LastName).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("userID", student.UserID).Msg("Error inserting student")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student ID=%d: %w", id, err)
	}

	return student, nil
}

// GetByUserID retrieves the student profile owned by a user account
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Where(squirrel.Eq{"s.user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student by user query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student for user ID=%d: %w", userID, err)
	}

	return student, nil
}

// UpdateProfile applies a partial profile update. Only non-nil fields are
// written.
func (r *StudentRepository) UpdateProfile(ctx context.Context, studentID int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	sql, args, err := r.sb.Update("students").
		SetMap(fields).
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student ID=%d: %w", studentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// SetVerified flips the admin verification flag on a profile.
func (r *StudentRepository) SetVerified(ctx context.Context, studentID int64, verified bool) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"is_verified": verified,
			"updated_at":  time.Now(),
		}).
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set verified query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating student verification: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// List retrieves students with pagination and optional filters.
func (r *StudentRepository) List(ctx context.Context, filters map[string]interface{}, offset uint64, limit int) ([]models.Student, int64, error) {
	baseSelect := r.sb.Select(append(studentColumns, "u.email", "COUNT(*) OVER() AS total_count")...).
		From("students s").
		Join("users u ON s.user_id = u.id")

	whereCondition := squirrel.And{}
	if verified, ok := filters["is_verified"].(bool); ok {
		whereCondition = append(whereCondition, squirrel.Eq{"s.is_verified": verified})
	}
	if state, ok := filters["state"].(string); ok && state != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"s.state": state})
	}
	if city, ok := filters["city"].(string); ok && city != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"s.city": city})
	}
	if search, ok := filters["search"].(string); ok && search != "" {
		pattern := "%" + strings.TrimSpace(search) + "%"
		whereCondition = append(whereCondition, squirrel.Or{
			squirrel.ILike{"s.first_name": pattern},
			squirrel.ILike{"s.last_name": pattern},
			squirrel.ILike{"u.email": pattern},
		})
	}
	if len(whereCondition) > 0 {
		baseSelect = baseSelect.Where(whereCondition)
	}

	baseSelect = baseSelect.OrderBy("s.created_at DESC").Limit(uint64(limit)).Offset(offset)

	sql, args, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	var total int64
	for rows.Next() {
		var email string
		student, err := scanStudent(rows, &email, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan student row: %w", err)
		}
		student.User = &models.User{ID: student.UserID, Email: email}
		students = append(students, *student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, total, nil
}

// AnonymizeStudent scrubs personal fields as part of a GDPR erasure. The row
// survives so approved application history keeps a valid reference.
func (r *StudentRepository) AnonymizeStudent(ctx context.Context, studentID int64) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"first_name":    "Erased",
			"last_name":     "User",
			"date_of_birth": nil,
			"gender":        nil,
			"phone":         nil,
			"address":       nil,
			"city":          nil,
			"state":         nil,
			"pincode":       nil,
			"aadhar_number": nil,
			"pan_number":    nil,
			"father_name":   nil,
			"mother_name":   nil,
			"family_income": nil,
			"is_verified":   false,
			"updated_at":    time.Now(),
		}).
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build anonymize student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error anonymizing student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	logger.Info().Int64("studentID", studentID).Msg("Student profile anonymized")
	return nil
}
