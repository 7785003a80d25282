package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/cache"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
)

// ScholarshipService manages the scholarship catalog. Reads go through an
// optional Redis cache; every write invalidates the affected keys.
type ScholarshipService interface {
	Create(ctx context.Context, creatorID int64, req *dto.CreateScholarshipRequest) (*dto.ScholarshipResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateScholarshipRequest) (*dto.ScholarshipResponse, error)
	Deactivate(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*dto.ScholarshipResponse, error)
	List(ctx context.Context, filter *dto.ScholarshipFilterRequest, search string) ([]dto.ScholarshipResponse, dto.PaginationInfo, error)
	CheckEligibility(ctx context.Context, scholarshipID, userID int64) (*EligibilityResult, error)
	Stats(ctx context.Context) (*dto.ScholarshipStatsResponse, error)
	StatsFor(ctx context.Context, scholarshipID int64) (*dto.ScholarshipApplicationStatsResponse, error)
}

type scholarshipService struct {
	repo        *repositories.ScholarshipRepository
	studentRepo *repositories.StudentRepository
	cache       *cache.Cache
	logger      zerolog.Logger
}

// NewScholarshipService creates a new ScholarshipService
func NewScholarshipService(repo *repositories.ScholarshipRepository, studentRepo *repositories.StudentRepository, c *cache.Cache, logger zerolog.Logger) ScholarshipService {
	return &scholarshipService{repo: repo, studentRepo: studentRepo, cache: c, logger: logger}
}

func scholarshipCacheKey(id int64) string {
	return fmt.Sprintf("scholarships:id:%d", id)
}

// Create adds a scholarship to the catalog.
func (s *scholarshipService) Create(ctx context.Context, creatorID int64, req *dto.CreateScholarshipRequest) (*dto.ScholarshipResponse, error) {
	if req.ApplicationEndDate.Before(req.ApplicationStartDate) {
		return nil, apperrors.NewValidationError("application end date must be after the start date")
	}
	if err := validateCriteria(req.EligibilityCriteria); err != nil {
		return nil, err
	}

	scholarship := &models.Scholarship{
		Title:                req.Title,
		Description:          req.Description,
		EligibilityCriteria:  req.EligibilityCriteria,
		Amount:               req.Amount,
		MaxAmount:            req.MaxAmount,
		Category:             req.Category,
		ApplicationStartDate: req.ApplicationStartDate,
		ApplicationEndDate:   req.ApplicationEndDate,
		AcademicYear:         req.AcademicYear,
		MaxApplications:      req.MaxApplications,
		DocumentsRequired:    req.DocumentsRequired,
		IsActive:             true,
		CreatedBy:            creatorID,
	}
	if req.IsActive != nil {
		scholarship.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, scholarship); err != nil {
		return nil, err
	}

	resp := dto.NewScholarshipResponse(scholarship)
	return &resp, nil
}

// Update applies a partial catalog edit and invalidates the cache entry.
func (s *scholarshipService) Update(ctx context.Context, id int64, req *dto.UpdateScholarshipRequest) (*dto.ScholarshipResponse, error) {
	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if len(req.EligibilityCriteria) > 0 {
		if err := validateCriteria(req.EligibilityCriteria); err != nil {
			return nil, err
		}
		fields["eligibility_criteria"] = req.EligibilityCriteria
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.MaxAmount != nil {
		fields["max_amount"] = *req.MaxAmount
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.ApplicationStartDate != nil {
		fields["application_start_date"] = *req.ApplicationStartDate
	}
	if req.ApplicationEndDate != nil {
		fields["application_end_date"] = *req.ApplicationEndDate
	}
	if req.AcademicYear != nil {
		fields["academic_year"] = *req.AcademicYear
	}
	if req.MaxApplications != nil {
		fields["max_applications"] = *req.MaxApplications
	}
	if req.DocumentsRequired != nil {
		encoded, err := json.Marshal(req.DocumentsRequired)
		if err != nil {
			return nil, fmt.Errorf("failed to encode documents_required: %w", err)
		}
		fields["documents_required"] = encoded
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) == 0 {
		return nil, apperrors.NewBadRequestError("no fields to update")
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, scholarshipCacheKey(id))

	scholarship, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewScholarshipResponse(scholarship)
	return &resp, nil
}

// Deactivate hides a scholarship from the catalog without touching its
// existing applications.
func (s *scholarshipService) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, scholarshipCacheKey(id))
	return nil
}

// Get returns one scholarship, served from cache when possible.
func (s *scholarshipService) Get(ctx context.Context, id int64) (*dto.ScholarshipResponse, error) {
	var cached models.Scholarship
	if err := s.cache.GetJSON(ctx, scholarshipCacheKey(id), &cached); err == nil {
		resp := dto.NewScholarshipResponse(&cached)
		return &resp, nil
	}

	scholarship, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, scholarshipCacheKey(id), scholarship)

	resp := dto.NewScholarshipResponse(scholarship)
	return &resp, nil
}

// List returns a catalog page. ActiveOnly additionally restricts to
// scholarships whose application window is currently open.
func (s *scholarshipService) List(ctx context.Context, filter *dto.ScholarshipFilterRequest, search string) ([]dto.ScholarshipResponse, dto.PaginationInfo, error) {
	filters := make(map[string]interface{})
	if filter.Category != nil {
		filters["category"] = *filter.Category
	}
	if filter.AcademicYear != nil {
		filters["academic_year"] = *filter.AcademicYear
	}
	if search != "" {
		filters["search"] = search
	}
	if filter.ActiveOnly {
		filters["open_at"] = time.Now()
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	scholarships, total, err := s.repo.List(ctx, filters, filter.ActiveOnly, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	responses := make([]dto.ScholarshipResponse, 0, len(scholarships))
	for i := range scholarships {
		responses = append(responses, dto.NewScholarshipResponse(&scholarships[i]))
	}

	return responses, helpers.NewPaginationInfo(total, filter.Page, filter.PageSize), nil
}

// CheckEligibility previews the stored criteria against the calling student's
// profile. Form-based criteria (percentage, category) have nothing to check
// yet and are skipped. The answer is advisory; submission-time enforcement is
// a separate config switch.
func (s *scholarshipService) CheckEligibility(ctx context.Context, scholarshipID, userID int64) (*EligibilityResult, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	scholarship, err := s.repo.GetByID(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}

	result := CheckEligibility(student, nil, scholarship)
	return &result, nil
}

// Stats aggregates catalog-wide counts for the admin dashboard.
func (s *scholarshipService) Stats(ctx context.Context) (*dto.ScholarshipStatsResponse, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	resp := dto.NewScholarshipStatsResponse(stats)
	return &resp, nil
}

// StatsFor aggregates application counts per status for one scholarship.
func (s *scholarshipService) StatsFor(ctx context.Context, scholarshipID int64) (*dto.ScholarshipApplicationStatsResponse, error) {
	scholarship, err := s.repo.GetByID(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.GetApplicationCounts(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ScholarshipApplicationStatsResponse{
		ScholarshipID: scholarship.ID,
		Title:         scholarship.Title,
		ByStatus:      counts,
	}
	for _, count := range counts {
		resp.TotalApplications += count
	}
	return resp, nil
}

// validateCriteria rejects eligibility JSON that does not decode into the
// known criteria shape. Storing unreadable criteria would silently disable
// eligibility checks for the scholarship.
func validateCriteria(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var spec models.EligibilityCriteriaSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return apperrors.NewValidationError("eligibilityCriteria is not valid JSON")
	}
	return nil
}
