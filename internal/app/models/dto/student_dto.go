package dto

import (
	"time"

	"github.com/vidyadaan/scholarhub/internal/app/models"
)

// UpdateStudentRequest is the payload for profile edits. All fields optional;
// only supplied fields are written.
type UpdateStudentRequest struct {
	FirstName    *string  `json:"firstName,omitempty"`
	LastName     *string  `json:"lastName,omitempty"`
	DateOfBirth  *string  `json:"dateOfBirth,omitempty" example:"2003-06-15"` // YYYY-MM-DD
	Gender       *string  `json:"gender,omitempty" binding:"omitempty,oneof=MALE FEMALE OTHER"`
	Phone        *string  `json:"phone,omitempty"`
	Address      *string  `json:"address,omitempty"`
	City         *string  `json:"city,omitempty"`
	State        *string  `json:"state,omitempty"`
	Pincode      *string  `json:"pincode,omitempty" binding:"omitempty,len=6,numeric"`
	AadharNumber *string  `json:"aadharNumber,omitempty" binding:"omitempty,len=12,numeric"`
	PanNumber    *string  `json:"panNumber,omitempty" binding:"omitempty,len=10"`
	FatherName   *string  `json:"fatherName,omitempty"`
	MotherName   *string  `json:"motherName,omitempty"`
	FamilyIncome *float64 `json:"familyIncome,omitempty" binding:"omitempty,gte=0"`
}

// StudentFilterRequest filters the admin student listing.
type StudentFilterRequest struct {
	IsVerified *bool
	Search     *string
	Page       int
	PageSize   int
}

// StudentResponse is the outward view of a student profile.
type StudentResponse struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	Email        string     `json:"email,omitempty"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Gender       *string    `json:"gender,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Address      *string    `json:"address,omitempty"`
	City         *string    `json:"city,omitempty"`
	State        *string    `json:"state,omitempty"`
	Pincode      *string    `json:"pincode,omitempty"`
	AadharNumber *string    `json:"aadharNumber,omitempty"`
	PanNumber    *string    `json:"panNumber,omitempty"`
	FatherName   *string    `json:"fatherName,omitempty"`
	MotherName   *string    `json:"motherName,omitempty"`
	FamilyIncome *float64   `json:"familyIncome,omitempty"`
	IsVerified   bool       `json:"isVerified"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewStudentResponse converts a Student model into its response DTO.
func NewStudentResponse(s *models.Student) StudentResponse {
	resp := StudentResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		DateOfBirth:  s.DateOfBirth,
		Gender:       s.Gender,
		Phone:        s.Phone,
		Address:      s.Address,
		City:         s.City,
		State:        s.State,
		Pincode:      s.Pincode,
		AadharNumber: s.AadharNumber,
		PanNumber:    s.PanNumber,
		FatherName:   s.FatherName,
		MotherName:   s.MotherName,
		FamilyIncome: s.FamilyIncome,
		IsVerified:   s.IsVerified,
		CreatedAt:    s.CreatedAt,
	}
	if s.User != nil {
		resp.Email = s.User.Email
	}
	return resp
}
