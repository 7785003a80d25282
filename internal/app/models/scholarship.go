package models

import (
	"encoding/json"
	"time"
)

// Scholarship defines an admin-authored funding program based on the
// 'scholarships' table. is_active gates catalog visibility and the
// application window gates new submissions.
type Scholarship struct {
	ID                   int64           `json:"id" db:"id"`
	Title                string          `json:"title" db:"title"`
	Description          string          `json:"description" db:"description"`
	EligibilityCriteria  json.RawMessage `json:"eligibilityCriteria,omitempty" db:"eligibility_criteria"`
	Amount               float64         `json:"amount" db:"amount"`
	MaxAmount            *float64        `json:"maxAmount,omitempty" db:"max_amount"`
	Category             string          `json:"category" db:"category"`
	ApplicationStartDate time.Time       `json:"applicationStartDate" db:"application_start_date"`
	ApplicationEndDate   time.Time       `json:"applicationEndDate" db:"application_end_date"`
	AcademicYear         string          `json:"academicYear" db:"academic_year"`
	MaxApplications      int             `json:"maxApplications" db:"max_applications"`
	CurrentApplications  int             `json:"currentApplications" db:"current_applications"`
	DocumentsRequired    []string        `json:"documentsRequired" db:"documents_required"`
	IsActive             bool            `json:"isActive" db:"is_active"`
	CreatedBy            int64           `json:"createdBy" db:"created_by"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time       `json:"updatedAt" db:"updated_at"`
}

// IsOpen reports whether the application window is open at the given time.
func (s *Scholarship) IsOpen(now time.Time) bool {
	return s.IsActive && !now.Before(s.ApplicationStartDate) && !now.After(s.ApplicationEndDate)
}

// HasCapacity reports whether another application may be submitted.
// MaxApplications <= 0 means unlimited.
func (s *Scholarship) HasCapacity() bool {
	return s.MaxApplications <= 0 || s.CurrentApplications < s.MaxApplications
}

// ScholarshipStats aggregates catalog-wide application counts for the admin
// dashboard.
type ScholarshipStats struct {
	TotalScholarships int64            `json:"totalScholarships"`
	TotalApplications int64            `json:"totalApplications"`
	ByStatus          map[string]int64 `json:"byStatus"`
	TotalAwarded      float64          `json:"totalAwarded"`
}

// EligibilityCriteriaSpec is the known shape of the eligibility JSON. The
// criteria remain advisory unless enforcement is switched on in config.
type EligibilityCriteriaSpec struct {
	MaxFamilyIncome *float64 `json:"maxFamilyIncome,omitempty"`
	MinPercentage   *float64 `json:"minPercentage,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	States          []string `json:"states,omitempty"`
	Description     string   `json:"description,omitempty"`
}
