package models

import "time"

// AuditStatus marks whether the audited action succeeded.
type AuditStatus string

const (
	AuditSuccess AuditStatus = "SUCCESS"
	AuditFailure AuditStatus = "FAILURE"
)

// AuditLog is an append-only compliance record stored in the MongoDB
// 'audit_logs' collection, independent of the relational data.
type AuditLog struct {
	UserID    int64                  `bson:"userId" json:"userId"`
	Action    string                 `bson:"action" json:"action"`
	Entity    string                 `bson:"entity" json:"entity"`
	EntityID  *int64                 `bson:"entityId,omitempty" json:"entityId,omitempty"`
	OldValues map[string]interface{} `bson:"oldValues,omitempty" json:"oldValues,omitempty"`
	NewValues map[string]interface{} `bson:"newValues,omitempty" json:"newValues,omitempty"`
	IPAddress string                 `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent string                 `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Status    AuditStatus            `bson:"status" json:"status"`
	Severity  string                 `bson:"severity,omitempty" json:"severity,omitempty"`
	Timestamp time.Time              `bson:"timestamp" json:"timestamp"`
}

// ApplicationVersion is a pre-review snapshot of an application, stored in
// the MongoDB 'application_versions' collection so lost review context can be
// reconciled later.
type ApplicationVersion struct {
	ApplicationID int64             `bson:"applicationId" json:"applicationId"`
	Version       int               `bson:"version" json:"version"`
	Status        ApplicationStatus `bson:"status" json:"status"`
	ReviewerNotes *string           `bson:"reviewerNotes,omitempty" json:"reviewerNotes,omitempty"`
	AdminNotes    *string           `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	Score         *int              `bson:"score,omitempty" json:"score,omitempty"`
	CapturedAt    time.Time         `bson:"capturedAt" json:"capturedAt"`
}

// DocumentMetadata mirrors a document's verification state into the MongoDB
// 'document_metadata' collection, keyed by the relational document id so the
// write can be retried idempotently.
type DocumentMetadata struct {
	DocumentID      int64      `bson:"documentId" json:"documentId"`
	StudentID       int64      `bson:"studentId" json:"studentId"`
	Type            string     `bson:"type" json:"type"`
	OriginalName    string     `bson:"originalName" json:"originalName"`
	MimeType        string     `bson:"mimeType" json:"mimeType"`
	FileSize        int64      `bson:"fileSize" json:"fileSize"`
	IsVerified      bool       `bson:"isVerified" json:"isVerified"`
	RejectionReason *string    `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	VerifiedAt      *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}
