package models

import "time"

// Payment defines a disbursement record based on the 'payments' table. A stub
// is created with status PENDING when an application is approved; completion
// is a separate admin-driven process.
type Payment struct {
	ID            int64         `json:"id" db:"id"`
	ApplicationID int64         `json:"applicationId" db:"application_id"`
	Amount        float64       `json:"amount" db:"amount"`
	Status        PaymentStatus `json:"status" db:"status"`
	PaymentMethod *string       `json:"paymentMethod,omitempty" db:"payment_method"`
	TransactionID *string       `json:"transactionId,omitempty" db:"transaction_id"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty" db:"payment_date"`
	Remarks       *string       `json:"remarks,omitempty" db:"remarks"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
}
