package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleReviewer   RoleType = "REVIEWER"
	RoleAdmin      RoleType = "ADMIN"
	RoleSuperAdmin RoleType = "SUPER_ADMIN"
)

// IsValid reports whether the role is one of the known roles.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleReviewer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// NotificationType classifies a notification for the frontend.
type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
)

// PaymentStatus represents the disbursement lifecycle of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// IsValid reports whether the payment status is known.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// DocumentType identifies the kind of document a student uploaded.
type DocumentType string

const (
	DocumentIncomeCertificate DocumentType = "INCOME_CERTIFICATE"
	DocumentMarksheet         DocumentType = "MARKSHEET"
	DocumentAadharCard        DocumentType = "AADHAR_CARD"
	DocumentPanCard           DocumentType = "PAN_CARD"
	DocumentBankPassbook      DocumentType = "BANK_PASSBOOK"
	DocumentCasteCertificate  DocumentType = "CASTE_CERTIFICATE"
	DocumentOther             DocumentType = "OTHER"
)

// IsValid reports whether the document type is known.
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentIncomeCertificate, DocumentMarksheet, DocumentAadharCard,
		DocumentPanCard, DocumentBankPassbook, DocumentCasteCertificate, DocumentOther:
		return true
	}
	return false
}
