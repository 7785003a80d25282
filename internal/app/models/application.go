package models

import "time"

// ApplicationStatus represents where an application sits in the review workflow.
type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "DRAFT"
	StatusSubmitted   ApplicationStatus = "SUBMITTED"
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusOnHold      ApplicationStatus = "ON_HOLD"
	StatusApproved    ApplicationStatus = "APPROVED"
	StatusRejected    ApplicationStatus = "REJECTED"
)

// IsValid reports whether the status is one of the known workflow states.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusOnHold, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the review workflow is finished for this status.
// Payments still progress independently after APPROVED.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// IsActive reports whether the application still binds the student to the
// scholarship. Active applications block GDPR erasure and count toward the
// one-application-per-scholarship rule.
func (s ApplicationStatus) IsActive() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusOnHold, StatusApproved:
		return true
	}
	return false
}

// transitions is the review state machine. Terminal states have no outgoing
// edges; ON_HOLD can only resume review.
var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:       {StatusSubmitted},
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusApproved, StatusRejected, StatusOnHold},
	StatusOnHold:      {StatusUnderReview},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApplicationData is the nested form payload a student submits. Sub-sections
// are optional; their internal fields are validated at the API boundary, not
// here.
type ApplicationData struct {
	PersonalInfo   *PersonalInfo          `json:"personalInfo,omitempty"`
	AcademicInfo   *AcademicInfo          `json:"academicInfo,omitempty"`
	FamilyInfo     *FamilyInfo            `json:"familyInfo,omitempty"`
	BankDetails    *BankDetails           `json:"bankDetails,omitempty"`
	AdditionalInfo map[string]interface{} `json:"additionalInfo,omitempty"`
}

// PersonalInfo carries the applicant's personal details as entered on the form.
type PersonalInfo struct {
	FullName    string `json:"fullName,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
}

// AcademicInfo carries the applicant's education details.
type AcademicInfo struct {
	Institution   string   `json:"institution,omitempty"`
	Course        string   `json:"course,omitempty"`
	YearOfStudy   int      `json:"yearOfStudy,omitempty"`
	Percentage    *float64 `json:"percentage,omitempty"`
	RollNumber    string   `json:"rollNumber,omitempty"`
	PassingYear   int      `json:"passingYear,omitempty"`
	PreviousMarks string   `json:"previousMarks,omitempty"`
}

// FamilyInfo carries household details used for eligibility display.
type FamilyInfo struct {
	FatherName       string   `json:"fatherName,omitempty"`
	FatherOccupation string   `json:"fatherOccupation,omitempty"`
	MotherName       string   `json:"motherName,omitempty"`
	MotherOccupation string   `json:"motherOccupation,omitempty"`
	AnnualIncome     *float64 `json:"annualIncome,omitempty"`
	Dependents       int      `json:"dependents,omitempty"`
}

// BankDetails carries the disbursement account.
type BankDetails struct {
	AccountHolder string `json:"accountHolder,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSCCode      string `json:"ifscCode,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

// Application binds a student to a scholarship and carries the review state.
// Version is the optimistic concurrency token; every review write increments
// it and a stale expected version is rejected instead of overwriting.
type Application struct {
	ID            int64             `json:"id" db:"id"`
	StudentID     int64             `json:"studentId" db:"student_id"`
	ScholarshipID int64             `json:"scholarshipId" db:"scholarship_id"`
	Status        ApplicationStatus `json:"status" db:"status"`
	Data          ApplicationData   `json:"applicationData" db:"application_data"`
	SubmittedAt   *time.Time        `json:"submittedAt,omitempty" db:"submitted_at"`
	ReviewedAt    *time.Time        `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ApprovedAt    *time.Time        `json:"approvedAt,omitempty" db:"approved_at"`
	RejectedAt    *time.Time        `json:"rejectedAt,omitempty" db:"rejected_at"`
	ReviewerNotes *string           `json:"reviewerNotes,omitempty" db:"reviewer_notes"`
	AdminNotes    *string           `json:"adminNotes,omitempty" db:"admin_notes"`
	Score         *int              `json:"score,omitempty" db:"score"`
	AwardedAmount *float64          `json:"awardedAmount,omitempty" db:"awarded_amount"`
	Version       int               `json:"version" db:"version"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time         `json:"updatedAt" db:"updated_at"`

	Student     *Student     `json:"student,omitempty"`     // Relation, no db tag
	Scholarship *Scholarship `json:"scholarship,omitempty"` // Relation, no db tag
	Documents   []Document   `json:"documents,omitempty"`   // Relation, no db tag
	Payments    []Payment    `json:"payments,omitempty"`    // Relation, no db tag
}
