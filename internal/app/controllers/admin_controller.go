package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/app/services"
	"github.com/vidyadaan/scholarhub/internal/middleware"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
)

// AdminController handles user administration, runtime configuration and the
// audit views.
type AdminController struct {
	userRepo   *repositories.UserRepository
	configRepo *repositories.SystemConfigRepository
	audit      services.AuditService
	logger     zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	userRepo *repositories.UserRepository,
	configRepo *repositories.SystemConfigRepository,
	audit services.AuditService,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		userRepo:   userRepo,
		configRepo: configRepo,
		audit:      audit,
		logger:     logger,
	}
}

// ListUsers returns a page of accounts
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param role query string false "Role filter" Enums(STUDENT, REVIEWER, ADMIN, SUPER_ADMIN)
// @Success 200 {object} dto.APIResponse{data=[]models.User}
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, limit)

	users, total, err := c.userRepo.ListUsers(ctx.Request.Context(), ctx.Query("role"), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(users, helpers.NewPaginationInfo(total, page, limit)))
}

// SetUserActive enables or disables an account
// @Summary Enable or disable a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.SetUserActiveRequest true "Active flag"
// @Success 200 {object} dto.APIResponse "Account state updated"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/active [patch]
func (c *AdminController) SetUserActive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.SetUserActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.userRepo.SetActive(ctx.Request.Context(), id, req.Active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	adminID, _ := middleware.GetUserID(ctx)
	c.audit.Record(adminID, "admin.set_user_active", "user", &id, nil,
		map[string]interface{}{"active": req.Active})

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Account state updated"))
}

// GetSystemConfig lists runtime tunables
// @Summary List system configuration
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.SystemConfig}
// @Router /admin/config [get]
func (c *AdminController) GetSystemConfig(ctx *gin.Context) {
	entries, err := c.configRepo.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(entries))
}

// UpsertSystemConfig writes one runtime tunable
// @Summary Upsert system configuration
// @Description Writes a key/value tunable. The running process picks it up on next startup.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SystemConfigRequest true "Config entry"
// @Success 200 {object} dto.APIResponse "Config entry saved"
// @Router /admin/config [put]
func (c *AdminController) UpsertSystemConfig(ctx *gin.Context) {
	var req dto.SystemConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.configRepo.Upsert(ctx.Request.Context(), req.Key, req.Value, req.Type); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	adminID, _ := middleware.GetUserID(ctx)
	c.audit.Record(adminID, "admin.upsert_config", "system_config", nil, nil,
		map[string]interface{}{"key": req.Key, "value": req.Value})

	c.logger.Info().Str("key", req.Key).Msg("System config updated")
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Config entry saved"))
}

// ListAuditLogs returns compliance audit entries
// @Summary List audit logs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Filter by acting user"
// @Param entity query string false "Filter by entity type"
// @Param limit query int false "Max entries" default(100)
// @Success 200 {object} dto.APIResponse{data=[]models.AuditLog}
// @Router /admin/audit-logs [get]
func (c *AdminController) ListAuditLogs(ctx *gin.Context) {
	var userID int64
	if raw := ctx.Query("userId"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			userID = parsed
		}
	}
	limit, _ := strconv.ParseInt(ctx.DefaultQuery("limit", "100"), 10, 64)

	logs, err := c.audit.ListLogs(ctx.Request.Context(), userID, ctx.Query("entity"), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(logs))
}

// ListApplicationVersions returns the snapshot history of one application
// @Summary List application snapshots
// @Description Pre-review snapshots captured before each decision, newest first.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ApplicationVersion}
// @Router /admin/applications/{id}/versions [get]
func (c *AdminController) ListApplicationVersions(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	versions, err := c.audit.ListApplicationVersions(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(versions))
}
