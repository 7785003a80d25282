package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
	"github.com/vidyadaan/scholarhub/internal/pkg/validation"
)

// StudentService manages student profiles and admin-side verification.
type StudentService interface {
	GetOwnProfile(ctx context.Context, userID int64) (*dto.StudentResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error)
	UpdateOwnProfile(ctx context.Context, userID int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Verify(ctx context.Context, studentID, verifierID int64, verified bool) error
	List(ctx context.Context, filter *dto.StudentFilterRequest) ([]dto.StudentResponse, dto.PaginationInfo, error)
}

type studentService struct {
	repo     *repositories.StudentRepository
	notifier NotificationService
	audit    AuditService
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(repo *repositories.StudentRepository, notifier NotificationService, audit AuditService, logger zerolog.Logger) StudentService {
	return &studentService{repo: repo, notifier: notifier, audit: audit, logger: logger}
}

// GetOwnProfile returns the calling user's student profile.
func (s *studentService) GetOwnProfile(ctx context.Context, userID int64) (*dto.StudentResponse, error) {
	student, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// GetByID returns one student profile for the review side.
func (s *studentService) GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// UpdateOwnProfile writes the supplied profile fields. Editing identity
// fields drops the verified flag so an admin re-checks the profile.
func (s *studentService) UpdateOwnProfile(ctx context.Context, userID int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields, err := buildProfileFields(req)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, apperrors.NewBadRequestError("no fields to update")
	}

	if student.IsVerified && touchesIdentity(req) {
		fields["is_verified"] = false
	}

	if err := s.repo.UpdateProfile(ctx, student.ID, fields); err != nil {
		return nil, err
	}
	s.audit.Record(userID, "student.update_profile", "student", &student.ID, nil,
		map[string]interface{}{"fields": fieldNames(fields)})

	updated, err := s.repo.GetByID(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudentResponse(updated)
	return &resp, nil
}

// Verify sets or clears the verified flag on a student profile.
func (s *studentService) Verify(ctx context.Context, studentID, verifierID int64, verified bool) error {
	student, err := s.repo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}

	if err := s.repo.SetVerified(ctx, studentID, verified); err != nil {
		return err
	}
	s.audit.Record(verifierID, "student.verify", "student", &studentID, nil,
		map[string]interface{}{"verified": verified})

	if verified {
		notifyAsync(s.notifier, s.logger, student.UserID,
			"Profile verified",
			"Your student profile has been verified. You can now apply for scholarships.",
			models.NotificationSuccess, nil)
	}
	return nil
}

// List returns a page of student profiles for the admin view.
func (s *studentService) List(ctx context.Context, filter *dto.StudentFilterRequest) ([]dto.StudentResponse, dto.PaginationInfo, error) {
	filters := make(map[string]interface{})
	if filter.IsVerified != nil {
		filters["is_verified"] = *filter.IsVerified
	}
	if filter.Search != nil && *filter.Search != "" {
		filters["search"] = *filter.Search
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	students, total, err := s.repo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	responses := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		responses = append(responses, dto.NewStudentResponse(&students[i]))
	}

	return responses, helpers.NewPaginationInfo(total, filter.Page, filter.PageSize), nil
}

// buildProfileFields maps the optional request fields onto profile columns.
func buildProfileFields(req *dto.UpdateStudentRequest) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, apperrors.NewValidationError("dateOfBirth must be in YYYY-MM-DD format")
		}
		fields["date_of_birth"] = dob
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.Phone != nil {
		if !validation.IsValidPhone(*req.Phone) {
			return nil, apperrors.NewValidationError("phone must be a valid Indian mobile number")
		}
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.State != nil {
		fields["state"] = *req.State
	}
	if req.Pincode != nil {
		if !validation.IsValidPincode(*req.Pincode) {
			return nil, apperrors.NewValidationError("pincode must be a 6-digit postal code")
		}
		fields["pincode"] = *req.Pincode
	}
	if req.AadharNumber != nil {
		if !validation.IsValidAadhar(*req.AadharNumber) {
			return nil, apperrors.NewValidationError("aadharNumber must be a valid 12-digit Aadhaar number")
		}
		fields["aadhar_number"] = *req.AadharNumber
	}
	if req.PanNumber != nil {
		if !validation.IsValidPAN(*req.PanNumber) {
			return nil, apperrors.NewValidationError("panNumber must follow the AAAAA9999A format")
		}
		fields["pan_number"] = *req.PanNumber
	}
	if req.FatherName != nil {
		fields["father_name"] = *req.FatherName
	}
	if req.MotherName != nil {
		fields["mother_name"] = *req.MotherName
	}
	if req.FamilyIncome != nil {
		fields["family_income"] = *req.FamilyIncome
	}
	return fields, nil
}

// touchesIdentity reports whether the update edits fields an admin verified.
func touchesIdentity(req *dto.UpdateStudentRequest) bool {
	return req.FirstName != nil || req.LastName != nil || req.DateOfBirth != nil ||
		req.AadharNumber != nil || req.PanNumber != nil || req.FamilyIncome != nil
}

func fieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
