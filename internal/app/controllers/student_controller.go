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

// StudentController handles student profile operations
type StudentController struct {
	studentService services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{studentService: studentService, logger: logger}
}

// GetOwnProfile returns the caller's profile
// @Summary Get own student profile
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "No student profile for this account"
// @Router /students/me [get]
func (c *StudentController) GetOwnProfile(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	resp, err := c.studentService.GetOwnProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateOwnProfile updates the caller's profile
// @Summary Update own student profile
// @Description Writes the supplied fields. Editing identity fields clears the verified flag.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid field value"
// @Router /students/me [put]
func (c *StudentController) UpdateOwnProfile(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.studentService.UpdateOwnProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetStudent returns one student profile
// @Summary Get a student profile
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid student ID")))
		return
	}

	resp, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListStudents returns a page of student profiles
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param verified query bool false "Filter by verification state"
// @Param search query string false "Search by name or email"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)

	filter := &dto.StudentFilterRequest{Page: page, PageSize: limit}
	if verified := ctx.Query("verified"); verified != "" {
		v := verified == "true"
		filter.IsVerified = &v
	}
	if search := ctx.Query("search"); search != "" {
		filter.Search = &search
	}

	students, pagination, err := c.studentService.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(students, pagination))
}

// VerifyStudent sets or clears the verified flag
// @Summary Verify a student profile
// @Description Marks the profile as checked against its documents. verified=false withdraws verification.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param verified query bool false "Verification state" default(true)
// @Success 200 {object} dto.APIResponse "Verification state updated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/verify [patch]
func (c *StudentController) VerifyStudent(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid student ID")))
		return
	}
	verifierID, _ := middleware.GetUserID(ctx)
	verified := ctx.DefaultQuery("verified", "true") == "true"

	if err := c.studentService.Verify(ctx.Request.Context(), id, verifierID, verified); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Verification state updated"))
}
