package dto

import (
	"time"

	"github.com/vidyadaan/scholarhub/internal/app/models"
)

// UpdatePaymentStatusRequest moves a payment through its own lifecycle,
// independent of the application review.
type UpdatePaymentStatusRequest struct {
	Status        models.PaymentStatus `json:"status" binding:"required,oneof=PENDING COMPLETED FAILED"`
	PaymentMethod *string              `json:"paymentMethod,omitempty"`
	TransactionID *string              `json:"transactionId,omitempty"`
	Remarks       *string              `json:"remarks,omitempty"`
}

// PaymentFilterRequest filters the admin payment listing.
type PaymentFilterRequest struct {
	ApplicationID *int64
	Status        *models.PaymentStatus
	Page          int
	PageSize      int
}

// PaymentResponse is the outward view of a payment record.
type PaymentResponse struct {
	ID            int64                `json:"id"`
	ApplicationID int64                `json:"applicationId"`
	Amount        float64              `json:"amount"`
	Status        models.PaymentStatus `json:"status"`
	PaymentMethod *string              `json:"paymentMethod,omitempty"`
	TransactionID *string              `json:"transactionId,omitempty"`
	PaymentDate   *time.Time           `json:"paymentDate,omitempty"`
	Remarks       *string              `json:"remarks,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// NewPaymentResponse converts a Payment model into its response DTO.
func NewPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		ApplicationID: p.ApplicationID,
		Amount:        p.Amount,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		PaymentDate:   p.PaymentDate,
		Remarks:       p.Remarks,
		CreatedAt:     p.CreatedAt,
	}
}
