package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/services"
	"github.com/vidyadaan/scholarhub/internal/middleware"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
)

// ApplicationController handles the application workflow endpoints
type ApplicationController struct {
	applicationService services.ApplicationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{applicationService: applicationService, logger: logger}
}

// CreateApplication starts a new application
// @Summary Create an application
// @Description Creates a DRAFT application, or submits in one step when submit=true.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateApplicationRequest true "Application payload"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 400 {object} dto.ErrorResponse "Window closed or invalid payload"
// @Failure 403 {object} dto.ErrorResponse "Profile not verified or not eligible"
// @Failure 409 {object} dto.ErrorResponse "Duplicate application or capacity reached"
// @Router /applications [post]
func (c *ApplicationController) CreateApplication(ctx *gin.Context) {
	var req dto.CreateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	resp, err := c.applicationService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("applicationID", resp.ID).Int64("scholarshipID", resp.ScholarshipID).
		Str("status", string(resp.Status)).Msg("Application created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// UpdateApplication replaces a draft's form payload
// @Summary Update a draft application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.UpdateApplicationRequest true "New form payload"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 400 {object} dto.ErrorResponse "Application is not a draft"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /applications/{id} [put]
func (c *ApplicationController) UpdateApplication(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	resp, err := c.applicationService.UpdateDraft(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// SubmitApplication moves a draft into the review queue
// @Summary Submit an application
// @Description Runs the submission gates (window, capacity, duplicates, optional eligibility) and moves the draft to SUBMITTED.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 400 {object} dto.ErrorResponse "Not a draft or window closed"
// @Failure 409 {object} dto.ErrorResponse "Capacity reached"
// @Router /applications/{id}/submit [patch]
func (c *ApplicationController) SubmitApplication(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	resp, err := c.applicationService.Submit(ctx.Request.Context(), userID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("applicationID", id).Msg("Application submitted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ReviewApplication records a reviewer decision
// @Summary Review an application
// @Description Applies a review decision guarded by the optimistic version token. Approval creates a pending payment stub.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.ReviewApplicationRequest true "Decision payload"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 400 {object} dto.ErrorResponse "Decision not reachable from current status"
// @Failure 409 {object} dto.ErrorResponse "Version conflict with a concurrent review"
// @Router /applications/{id}/review [patch]
func (c *ApplicationController) ReviewApplication(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.ReviewApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	reviewerID, _ := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)

	resp, err := c.applicationService.Review(ctx.Request.Context(), reviewerID, role, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("applicationID", id).Str("decision", req.Decision).
		Int64("reviewerID", reviewerID).Msg("Application reviewed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetApplication returns one application
// @Summary Get an application
// @Description Students see their own applications; review-side roles see all, with relations attached.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id} [get]
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)

	resp, err := c.applicationService.Get(ctx.Request.Context(), userID, role, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListApplications returns a page of applications
// @Summary List applications
// @Description Students are scoped to their own applications regardless of filters.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Status filter" Enums(DRAFT, SUBMITTED, UNDER_REVIEW, ON_HOLD, APPROVED, REJECTED)
// @Param studentId query int false "Student filter (review-side only)"
// @Param scholarshipId query int false "Scholarship filter"
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationResponse}
// @Router /applications [get]
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	userID, _ := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)

	filter := &dto.ApplicationFilterRequest{Page: page, PageSize: limit}
	if status := ctx.Query("status"); status != "" {
		s := models.ApplicationStatus(status)
		filter.Status = &s
	}
	if studentID := ctx.Query("studentId"); studentID != "" {
		if id, err := strconv.ParseInt(studentID, 10, 64); err == nil {
			filter.StudentID = &id
		}
	}
	if scholarshipID := ctx.Query("scholarshipId"); scholarshipID != "" {
		if id, err := strconv.ParseInt(scholarshipID, 10, 64); err == nil {
			filter.ScholarshipID = &id
		}
	}

	resp, err := c.applicationService.List(ctx.Request.Context(), userID, role, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(resp.Applications, resp.Pagination))
}
