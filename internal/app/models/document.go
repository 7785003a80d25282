package models

import "time"

// Document defines file metadata based on the 'documents' table. The bytes
// live in local storage; ApplicationID is a weak reference without cascade
// ownership.
type Document struct {
	ID              int64        `json:"id" db:"id"`
	StudentID       int64        `json:"studentId" db:"student_id"`
	ApplicationID   *int64       `json:"applicationId,omitempty" db:"application_id"`
	Type            DocumentType `json:"type" db:"type"`
	FileName        string       `json:"fileName" db:"file_name"`
	OriginalName    string       `json:"originalName" db:"original_name"`
	FilePath        string       `json:"filePath" db:"file_path"`
	FileSize        int64        `json:"fileSize" db:"file_size"`
	MimeType        string       `json:"mimeType" db:"mime_type"`
	IsVerified      bool         `json:"isVerified" db:"is_verified"`
	VerifiedBy      *int64       `json:"verifiedBy,omitempty" db:"verified_by"`
	VerifiedAt      *time.Time   `json:"verifiedAt,omitempty" db:"verified_at"`
	RejectionReason *string      `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" db:"updated_at"`
}
