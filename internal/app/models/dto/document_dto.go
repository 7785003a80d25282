package dto

import (
	"time"

	"github.com/vidyadaan/scholarhub/internal/app/models"
)

// UploadDocumentRequest carries the multipart form fields that accompany an
// uploaded file.
type UploadDocumentRequest struct {
	Type          models.DocumentType `form:"type" binding:"required"`
	ApplicationID *int64              `form:"applicationId" binding:"omitempty,gt=0"`
}

// VerifyDocumentRequest is the reviewer verdict on a document.
type VerifyDocumentRequest struct {
	Verified        bool   `json:"verified"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// DocumentFilterRequest filters the document listing.
type DocumentFilterRequest struct {
	StudentID     *int64
	ApplicationID *int64
	Type          *models.DocumentType
	VerifiedOnly  bool
	Page          int
	PageSize      int
}

// DocumentResponse is the outward view of document metadata.
type DocumentResponse struct {
	ID              int64               `json:"id"`
	StudentID       int64               `json:"studentId"`
	ApplicationID   *int64              `json:"applicationId,omitempty"`
	Type            models.DocumentType `json:"type"`
	FileName        string              `json:"fileName"`
	OriginalName    string              `json:"originalName"`
	FileSize        int64               `json:"fileSize"`
	MimeType        string              `json:"mimeType"`
	IsVerified      bool                `json:"isVerified"`
	VerifiedBy      *int64              `json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time          `json:"verifiedAt,omitempty"`
	RejectionReason *string             `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// NewDocumentResponse converts a Document model into its response DTO. The
// storage path stays internal; clients download through the files route.
func NewDocumentResponse(d *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:              d.ID,
		StudentID:       d.StudentID,
		ApplicationID:   d.ApplicationID,
		Type:            d.Type,
		FileName:        d.FileName,
		OriginalName:    d.OriginalName,
		FileSize:        d.FileSize,
		MimeType:        d.MimeType,
		IsVerified:      d.IsVerified,
		VerifiedBy:      d.VerifiedBy,
		VerifiedAt:      d.VerifiedAt,
		RejectionReason: d.RejectionReason,
		CreatedAt:       d.CreatedAt,
	}
}
