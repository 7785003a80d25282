package repositories

import (
	"context"
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

// DocumentRepository handles database operations for document metadata.
// The file bytes live in local storage; this table only carries metadata.
type DocumentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var documentColumns = []string{
	"d.id", "d.student_id", "d.application_id", "d.type", "d.file_name",
	"d.original_name", "d.file_path", "d.file_size", "d.mime_type",
	"d.is_verified", "d.verified_by", "d.verified_at", "d.rejection_reason",
	"d.created_at", "d.updated_at",
}

func scanDocument(row pgx.Row, extraDest ...interface{}) (*models.Document, error) {
	var doc models.Document
	dest := []interface{}{
		&doc.ID, &doc.StudentID, &doc.ApplicationID, &doc.Type, &doc.FileName,
		&doc.OriginalName, &doc.FilePath, &doc.FileSize, &doc.MimeType,
		&doc.IsVerified, &doc.VerifiedBy, &doc.VerifiedAt, &doc.RejectionReason,
		&doc.CreatedAt, &doc.UpdatedAt,
	}
	dest = append(dest, extraDest...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create inserts a new document record and sets its ID.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	sql, args, err := r.sb.Insert("documents").
		Columns(
			"student_id", "application_id", "type", "file_name", "original_name",
			"file_path", "file_size", "mime_type",
		).
		Values(
			doc.StudentID, doc.ApplicationID, doc.Type, doc.FileName, doc.OriginalName,
			doc.FilePath, doc.FileSize, doc.MimeType,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create document query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", doc.StudentID).Msg("Error inserting document")
		return fmt.Errorf("error creating document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	sql, args, err := r.sb.Select(documentColumns...).
		From("documents d").
		Where(squirrel.Eq{"d.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get document query: %w", err)
	}

	doc, err := scanDocument(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error retrieving document ID=%d: %w", id, err)
	}

	return doc, nil
}

// List retrieves documents with pagination and optional filters.
func (r *DocumentRepository) List(ctx context.Context, filters map[string]interface{}, offset uint64, limit int) ([]models.Document, int64, error) {
	baseSelect := r.sb.Select(append(documentColumns, "COUNT(*) OVER() AS total_count")...).
		From("documents d")

	whereCondition := squirrel.And{}
	if studentID, ok := filters["student_id"].(int64); ok && studentID > 0 {
		whereCondition = append(whereCondition, squirrel.Eq{"d.student_id": studentID})
	}
	if applicationID, ok := filters["application_id"].(int64); ok && applicationID > 0 {
		whereCondition = append(whereCondition, squirrel.Eq{"d.application_id": applicationID})
	}
	if docType, ok := filters["type"].(string); ok && docType != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"d.type": docType})
	}
	if verified, ok := filters["is_verified"].(bool); ok {
		whereCondition = append(whereCondition, squirrel.Eq{"d.is_verified": verified})
	}
	if len(whereCondition) > 0 {
		baseSelect = baseSelect.Where(whereCondition)
	}

	baseSelect = baseSelect.OrderBy("d.created_at DESC").Limit(uint64(limit)).Offset(offset)

	sql, args, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list documents query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	var total int64
	for rows.Next() {
		doc, err := scanDocument(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan document row: %w", err)
		}
		documents = append(documents, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating document rows: %w", err)
	}

	return documents, total, nil
}

// ListByStudent retrieves every document owned by a student.
func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Document, error) {
	sql, args, err := r.sb.Select(documentColumns...).
		From("documents d").
		Where(squirrel.Eq{"d.student_id": studentID}).
		OrderBy("d.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list by student query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying student documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		documents = append(documents, *doc)
	}

	return documents, rows.Err()
}

// SetVerification records a reviewer's verdict on a document.
func (r *DocumentRepository) SetVerification(ctx context.Context, id, verifierID int64, verified bool, rejectionReason *string) error {
	setMap := map[string]interface{}{
		"is_verified": verified,
		"verified_by": verifierID,
		"verified_at": time.Now(),
		"updated_at":  time.Now(),
	}
	if verified {
		setMap["rejection_reason"] = nil
	} else {
		setMap["rejection_reason"] = rejectionReason
	}

	sql, args, err := r.sb.Update("documents").
		SetMap(setMap).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set verification query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating document verification ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}

	return nil
}

// AttachToApplication links a previously uploaded document to an application.
func (r *DocumentRepository) AttachToApplication(ctx context.Context, documentID, applicationID int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE documents SET application_id = $1, updated_at = NOW() WHERE id = $2
	`, applicationID, documentID)
	if err != nil {
		return fmt.Errorf("error attaching document ID=%d: %w", documentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

// Delete removes a document record. The caller deletes the stored file.
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("documents").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete document query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting document ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}

	return nil
}

// DeleteByStudent removes every document owned by a student and returns the
// stored file paths so the caller can remove the bytes. Used by GDPR erasure.
func (r *DocumentRepository) DeleteByStudent(ctx context.Context, studentID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		DELETE FROM documents WHERE student_id = $1 RETURNING file_path
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error deleting documents for student ID=%d: %w", studentID, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan deleted document path: %w", err)
		}
		paths = append(paths, path)
	}

	return paths, rows.Err()
}
