package dto

import "time"

// ConsentRequest records or withdraws a consent grant.
type ConsentRequest struct {
	Purpose string `json:"purpose" binding:"required" example:"data_processing"`
	Granted bool   `json:"granted"`
}

// RectifyRequest corrects personal data under GDPR rectification. It reuses
// the profile update shape; every applied change lands in the audit log.
type RectifyRequest struct {
	Fields UpdateStudentRequest `json:"fields" binding:"required"`
}

// ExportResponse bundles everything held about one user.
type ExportResponse struct {
	GeneratedAt   time.Time             `json:"generatedAt"`
	User          interface{}           `json:"user"`
	Student       *StudentResponse      `json:"student,omitempty"`
	Applications  []ApplicationResponse `json:"applications"`
	Documents     []DocumentResponse    `json:"documents"`
	Notifications []NotificationResponse `json:"notifications"`
}

// ErasureResponse reports what the erasure pass did.
type ErasureResponse struct {
	UserID               int64 `json:"userId"`
	Anonymized           bool  `json:"anonymized"`
	NotificationsRemoved int64 `json:"notificationsRemoved"`
	DraftsRemoved        int64 `json:"draftsRemoved"`
}
