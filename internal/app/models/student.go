package models

import "time"

// Student defines the student profile model based on the 'students' table.
// Exactly one student row exists per STUDENT user.
type Student struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"userId" db:"user_id"`
	FirstName    string     `json:"firstName" db:"first_name"`
	LastName     string     `json:"lastName" db:"last_name"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender       *string    `json:"gender,omitempty" db:"gender"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Address      *string    `json:"address,omitempty" db:"address"`
	City         *string    `json:"city,omitempty" db:"city"`
	State        *string    `json:"state,omitempty" db:"state"`
	Pincode      *string    `json:"pincode,omitempty" db:"pincode"`
	AadharNumber *string    `json:"aadharNumber,omitempty" db:"aadhar_number"`
	PanNumber    *string    `json:"panNumber,omitempty" db:"pan_number"`
	FatherName   *string    `json:"fatherName,omitempty" db:"father_name"`
	MotherName   *string    `json:"motherName,omitempty" db:"mother_name"`
	FamilyIncome *float64   `json:"familyIncome,omitempty" db:"family_income"`
	IsVerified   bool       `json:"isVerified" db:"is_verified"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
	User         *User      `json:"user,omitempty"` // Relation, no db tag
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
