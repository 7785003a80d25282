package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/services"
	"github.com/vidyadaan/scholarhub/internal/middleware"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
)

// ScholarshipController handles scholarship catalog operations
type ScholarshipController struct {
	scholarshipService services.ScholarshipService
	logger             zerolog.Logger
}

// NewScholarshipController creates a new ScholarshipController
func NewScholarshipController(scholarshipService services.ScholarshipService, logger zerolog.Logger) *ScholarshipController {
	return &ScholarshipController{scholarshipService: scholarshipService, logger: logger}
}

// CreateScholarship adds a scholarship to the catalog
// @Summary Create a scholarship
// @Tags scholarships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateScholarshipRequest true "Scholarship definition"
// @Success 201 {object} dto.APIResponse{data=dto.ScholarshipResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid dates or criteria"
// @Router /scholarships [post]
func (c *ScholarshipController) CreateScholarship(ctx *gin.Context) {
	var req dto.CreateScholarshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	creatorID, _ := middleware.GetUserID(ctx)

	resp, err := c.scholarshipService.Create(ctx.Request.Context(), creatorID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("scholarshipID", resp.ID).Str("title", resp.Title).Msg("Scholarship created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// UpdateScholarship edits a catalog entry
// @Summary Update a scholarship
// @Tags scholarships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Param request body dto.UpdateScholarshipRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipResponse}
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /scholarships/{id} [put]
func (c *ScholarshipController) UpdateScholarship(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateScholarshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.scholarshipService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeactivateScholarship hides a scholarship from the catalog
// @Summary Deactivate a scholarship
// @Description Soft delete. Existing applications keep running.
// @Tags scholarships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse "Scholarship deactivated"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /scholarships/{id} [delete]
func (c *ScholarshipController) DeactivateScholarship(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.scholarshipService.Deactivate(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Scholarship deactivated"))
}

// GetScholarship returns one scholarship
// @Summary Get a scholarship
// @Tags scholarships
// @Produce json
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipResponse}
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /scholarships/{id} [get]
func (c *ScholarshipController) GetScholarship(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	resp, err := c.scholarshipService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListScholarships returns a catalog page
// @Summary List scholarships
// @Description active=true restricts to scholarships whose application window is open.
// @Tags scholarships
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param category query string false "Category filter"
// @Param academicYear query string false "Academic year filter"
// @Param active query bool false "Only open scholarships"
// @Param search query string false "Search in title and description"
// @Success 200 {object} dto.APIResponse{data=[]dto.ScholarshipResponse}
// @Router /scholarships [get]
func (c *ScholarshipController) ListScholarships(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)

	filter := &dto.ScholarshipFilterRequest{
		Page:       page,
		PageSize:   limit,
		ActiveOnly: ctx.Query("active") == "true",
	}
	if category := ctx.Query("category"); category != "" {
		filter.Category = &category
	}
	if year := ctx.Query("academicYear"); year != "" {
		filter.AcademicYear = &year
	}

	scholarships, pagination, err := c.scholarshipService.List(ctx.Request.Context(), filter, ctx.Query("search"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(scholarships, pagination))
}

// CheckEligibility previews eligibility for the calling student
// @Summary Check eligibility
// @Description Evaluates the stored criteria against the caller's profile. The answer is advisory.
// @Tags scholarships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=services.EligibilityResult}
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /scholarships/{id}/eligibility [get]
func (c *ScholarshipController) CheckEligibility(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	result, err := c.scholarshipService.CheckEligibility(ctx.Request.Context(), id, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// GetStats returns catalog-wide statistics
// @Summary Scholarship statistics
// @Tags scholarships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipStatsResponse}
// @Router /scholarships/stats [get]
func (c *ScholarshipController) GetStats(ctx *gin.Context) {
	resp, err := c.scholarshipService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetScholarshipStats returns application counts for one scholarship
// @Summary Per-scholarship application statistics
// @Tags scholarships
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scholarship ID"
// @Success 200 {object} dto.APIResponse{data=dto.ScholarshipApplicationStatsResponse}
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /scholarships/{id}/stats [get]
func (c *ScholarshipController) GetScholarshipStats(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	resp, err := c.scholarshipService.StatsFor(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// parseIDParam reads the :id path parameter, writing a 400 response on failure.
func parseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid ID parameter")))
		return 0, false
	}
	return id, true
}
