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

// PaymentRepository handles database operations for disbursement records
type PaymentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var paymentColumns = []string{
	"p.id", "p.application_id", "p.amount", "p.status", "p.payment_method",
	"p.transaction_id", "p.payment_date", "p.remarks", "p.created_at", "p.updated_at",
}

func scanPayment(row pgx.Row, extraDest ...interface{}) (*models.Payment, error) {
	var p models.Payment
	dest := []interface{}{
		&p.ID, &p.ApplicationID, &p.Amount, &p.Status, &p.PaymentMethod,
		&p.TransactionID, &p.PaymentDate, &p.Remarks, &p.CreatedAt, &p.UpdatedAt,
	}
	dest = append(dest, extraDest...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new payment stub inside the caller's transaction so the
// approval and its pending payment commit together.
func (r *PaymentRepository) Create(ctx context.Context, tx pgx.Tx, payment *models.Payment) error {
	sql, args, err := r.sb.Insert("payments").
		Columns("application_id", "amount", "status", "remarks").
		Values(payment.ApplicationID, payment.Amount, payment.Status, payment.Remarks).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create payment query: %w", err)
	}

	err = tx.QueryRow(ctx, sql, args...).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("applicationID", payment.ApplicationID).Msg("Error inserting payment")
		return fmt.Errorf("error creating payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	sql, args, err := r.sb.Select(paymentColumns...).
		From("payments p").
		Where(squirrel.Eq{"p.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get payment query: %w", err)
	}

	payment, err := scanPayment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("error retrieving payment ID=%d: %w", id, err)
	}

	return payment, nil
}

// List retrieves payments with pagination and optional filters.
func (r *PaymentRepository) List(ctx context.Context, filters map[string]interface{}, offset uint64, limit int) ([]models.Payment, int64, error) {
	baseSelect := r.sb.Select(append(paymentColumns, "COUNT(*) OVER() AS total_count")...).
		From("payments p")

	whereCondition := squirrel.And{}
	if status, ok := filters["status"].(string); ok && status != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"p.status": status})
	}
	if applicationID, ok := filters["application_id"].(int64); ok && applicationID > 0 {
		whereCondition = append(whereCondition, squirrel.Eq{"p.application_id": applicationID})
	}
	if studentID, ok := filters["student_id"].(int64); ok && studentID > 0 {
		baseSelect = baseSelect.Join("applications a ON p.application_id = a.id")
		whereCondition = append(whereCondition, squirrel.Eq{"a.student_id": studentID})
	}
	if len(whereCondition) > 0 {
		baseSelect = baseSelect.Where(whereCondition)
	}

	baseSelect = baseSelect.OrderBy("p.created_at DESC").Limit(uint64(limit)).Offset(offset)

	sql, args, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list payments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	var total int64
	for rows.Next() {
		payment, err := scanPayment(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, *payment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating payment rows: %w", err)
	}

	return payments, total, nil
}

// UpdateStatus moves a payment through its lifecycle. COMPLETED sets the
// payment date; transaction details are recorded when provided.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus, paymentMethod, transactionID, remarks *string) error {
	setMap := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status == models.PaymentCompleted {
		setMap["payment_date"] = time.Now()
	}
	if paymentMethod != nil {
		setMap["payment_method"] = paymentMethod
	}
	if transactionID != nil {
		setMap["transaction_id"] = transactionID
	}
	if remarks != nil {
		setMap["remarks"] = remarks
	}

	sql, args, err := r.sb.Update("payments").
		SetMap(setMap).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update payment status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating payment ID=%d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPaymentNotFound
	}

	logger.Info().Int64("paymentID", id).Str("status", string(status)).Msg("Payment status updated")
	return nil
}
