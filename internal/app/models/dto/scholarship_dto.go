package dto

import (
	"encoding/json"
	"time"

	"github.com/vidyadaan/scholarhub/internal/app/models"
)

// CreateScholarshipRequest is the admin payload for a new funding program.
type CreateScholarshipRequest struct {
	Title                string          `json:"title" binding:"required"`
	Description          string          `json:"description" binding:"required"`
	EligibilityCriteria  json.RawMessage `json:"eligibilityCriteria,omitempty"`
	Amount               float64         `json:"amount" binding:"required,gt=0"`
	MaxAmount            *float64        `json:"maxAmount,omitempty" binding:"omitempty,gt=0"`
	Category             string          `json:"category" binding:"required"`
	ApplicationStartDate time.Time       `json:"applicationStartDate" binding:"required"`
	ApplicationEndDate   time.Time       `json:"applicationEndDate" binding:"required,gtfield=ApplicationStartDate"`
	AcademicYear         string          `json:"academicYear" binding:"required"`
	MaxApplications      int             `json:"maxApplications" binding:"omitempty,gte=0"`
	DocumentsRequired    []string        `json:"documentsRequired,omitempty"`
	IsActive             *bool           `json:"isActive,omitempty"`
}

// UpdateScholarshipRequest mirrors the create payload with optional fields.
type UpdateScholarshipRequest struct {
	Title                *string         `json:"title,omitempty"`
	Description          *string         `json:"description,omitempty"`
	EligibilityCriteria  json.RawMessage `json:"eligibilityCriteria,omitempty"`
	Amount               *float64        `json:"amount,omitempty" binding:"omitempty,gt=0"`
	MaxAmount            *float64        `json:"maxAmount,omitempty" binding:"omitempty,gt=0"`
	Category             *string         `json:"category,omitempty"`
	ApplicationStartDate *time.Time      `json:"applicationStartDate,omitempty"`
	ApplicationEndDate   *time.Time      `json:"applicationEndDate,omitempty"`
	AcademicYear         *string         `json:"academicYear,omitempty"`
	MaxApplications      *int            `json:"maxApplications,omitempty" binding:"omitempty,gte=0"`
	DocumentsRequired    []string        `json:"documentsRequired,omitempty"`
	IsActive             *bool           `json:"isActive,omitempty"`
}

// ScholarshipFilterRequest filters the catalog listing.
type ScholarshipFilterRequest struct {
	Category     *string
	AcademicYear *string
	ActiveOnly   bool
	Page         int
	PageSize     int
}

// ScholarshipResponse is the outward view of a scholarship.
type ScholarshipResponse struct {
	ID                   int64           `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	EligibilityCriteria  json.RawMessage `json:"eligibilityCriteria,omitempty"`
	Amount               float64         `json:"amount"`
	MaxAmount            *float64        `json:"maxAmount,omitempty"`
	Category             string          `json:"category"`
	ApplicationStartDate time.Time       `json:"applicationStartDate"`
	ApplicationEndDate   time.Time       `json:"applicationEndDate"`
	AcademicYear         string          `json:"academicYear"`
	MaxApplications      int             `json:"maxApplications"`
	CurrentApplications  int             `json:"currentApplications"`
	DocumentsRequired    []string        `json:"documentsRequired"`
	IsActive             bool            `json:"isActive"`
	IsOpen               bool            `json:"isOpen"`
	CreatedBy            int64           `json:"createdBy"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// NewScholarshipResponse converts a Scholarship model into its response DTO.
func NewScholarshipResponse(s *models.Scholarship) ScholarshipResponse {
	return ScholarshipResponse{
		ID:                   s.ID,
		Title:                s.Title,
		Description:          s.Description,
		EligibilityCriteria:  s.EligibilityCriteria,
		Amount:               s.Amount,
		MaxAmount:            s.MaxAmount,
		Category:             s.Category,
		ApplicationStartDate: s.ApplicationStartDate,
		ApplicationEndDate:   s.ApplicationEndDate,
		AcademicYear:         s.AcademicYear,
		MaxApplications:      s.MaxApplications,
		CurrentApplications:  s.CurrentApplications,
		DocumentsRequired:    s.DocumentsRequired,
		IsActive:             s.IsActive,
		IsOpen:               s.IsOpen(time.Now()),
		CreatedBy:            s.CreatedBy,
		CreatedAt:            s.CreatedAt,
	}
}

// ScholarshipStatsResponse summarizes catalog-wide application counts for the
// admin dashboard.
type ScholarshipStatsResponse struct {
	TotalScholarships int64            `json:"totalScholarships"`
	TotalApplications int64            `json:"totalApplications"`
	ByStatus          map[string]int64 `json:"byStatus"`
	TotalAwarded      float64          `json:"totalAwarded"`
}

// ScholarshipApplicationStatsResponse summarizes application counts per
// status for one scholarship.
type ScholarshipApplicationStatsResponse struct {
	ScholarshipID     int64            `json:"scholarshipId"`
	Title             string           `json:"title"`
	TotalApplications int64            `json:"totalApplications"`
	ByStatus          map[string]int64 `json:"byStatus"`
}

// NewScholarshipStatsResponse converts the stats aggregate into its response DTO.
func NewScholarshipStatsResponse(s *models.ScholarshipStats) ScholarshipStatsResponse {
	return ScholarshipStatsResponse{
		TotalScholarships: s.TotalScholarships,
		TotalApplications: s.TotalApplications,
		ByStatus:          s.ByStatus,
		TotalAwarded:      s.TotalAwarded,
	}
}
