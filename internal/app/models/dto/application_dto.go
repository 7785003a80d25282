package dto

import (
	"time"

	"github.com/vidyadaan/scholarhub/internal/app/models"
)

// CreateApplicationRequest is the student payload for a new application.
// Submit=false leaves the application in DRAFT.
type CreateApplicationRequest struct {
	ScholarshipID   int64                  `json:"scholarshipId" binding:"required,gt=0"`
	ApplicationData models.ApplicationData `json:"applicationData" binding:"required"`
	Submit          bool                   `json:"submit"`
}

// UpdateApplicationRequest replaces the form payload of a DRAFT application.
type UpdateApplicationRequest struct {
	ApplicationData models.ApplicationData `json:"applicationData" binding:"required"`
}

// ReviewApplicationRequest is the reviewer/admin decision payload.
// ExpectedVersion carries the optimistic concurrency token the caller read;
// a stale value is rejected rather than overwriting a concurrent decision.
type ReviewApplicationRequest struct {
	Decision        string   `json:"decision" binding:"required,oneof=UNDER_REVIEW APPROVED REJECTED ON_HOLD"`
	Notes           string   `json:"notes,omitempty"`
	Score           *int     `json:"score,omitempty" binding:"omitempty,gte=0,lte=100"`
	AwardedAmount   *float64 `json:"awardedAmount,omitempty" binding:"omitempty,gt=0"`
	ExpectedVersion *int     `json:"expectedVersion,omitempty" binding:"omitempty,gte=1"`
}

// ApplicationFilterRequest filters the application listing.
type ApplicationFilterRequest struct {
	StudentID     *int64
	ScholarshipID *int64
	Status        *models.ApplicationStatus
	Page          int
	PageSize      int
}

// ApplicationResponse is the outward view of an application.
type ApplicationResponse struct {
	ID            int64                    `json:"id"`
	StudentID     int64                    `json:"studentId"`
	ScholarshipID int64                    `json:"scholarshipId"`
	Status        models.ApplicationStatus `json:"status"`
	Data          models.ApplicationData   `json:"applicationData"`
	SubmittedAt   *time.Time               `json:"submittedAt,omitempty"`
	ReviewedAt    *time.Time               `json:"reviewedAt,omitempty"`
	ApprovedAt    *time.Time               `json:"approvedAt,omitempty"`
	RejectedAt    *time.Time               `json:"rejectedAt,omitempty"`
	ReviewerNotes *string                  `json:"reviewerNotes,omitempty"`
	AdminNotes    *string                  `json:"adminNotes,omitempty"`
	Score         *int                     `json:"score,omitempty"`
	AwardedAmount *float64                 `json:"awardedAmount,omitempty"`
	Version       int                      `json:"version"`
	CreatedAt     time.Time                `json:"createdAt"`

	Student     *StudentResponse     `json:"student,omitempty"`
	Scholarship *ScholarshipResponse `json:"scholarship,omitempty"`
	Documents   []DocumentResponse   `json:"documents,omitempty"`
	Payments    []PaymentResponse    `json:"payments,omitempty"`
}

// NewApplicationResponse converts an Application model into its response DTO,
// including whatever relations were loaded.
func NewApplicationResponse(a *models.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:            a.ID,
		StudentID:     a.StudentID,
		ScholarshipID: a.ScholarshipID,
		Status:        a.Status,
		Data:          a.Data,
		SubmittedAt:   a.SubmittedAt,
		ReviewedAt:    a.ReviewedAt,
		ApprovedAt:    a.ApprovedAt,
		RejectedAt:    a.RejectedAt,
		ReviewerNotes: a.ReviewerNotes,
		AdminNotes:    a.AdminNotes,
		Score:         a.Score,
		AwardedAmount: a.AwardedAmount,
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
	}
	if a.Student != nil {
		student := NewStudentResponse(a.Student)
		resp.Student = &student
	}
	if a.Scholarship != nil {
		scholarship := NewScholarshipResponse(a.Scholarship)
		resp.Scholarship = &scholarship
	}
	for i := range a.Documents {
		resp.Documents = append(resp.Documents, NewDocumentResponse(&a.Documents[i]))
	}
	for i := range a.Payments {
		resp.Payments = append(resp.Payments, NewPaymentResponse(&a.Payments[i]))
	}
	return resp
}

// ApplicationListResponse is the paginated listing payload.
type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Pagination   PaginationInfo        `json:"pagination"`
}
