package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/services"
	"github.com/vidyadaan/scholarhub/internal/middleware"
)

// GDPRController handles data subject rights endpoints
type GDPRController struct {
	gdprService services.GDPRService
	logger      zerolog.Logger
}

// NewGDPRController creates a new GDPRController
func NewGDPRController(gdprService services.GDPRService, logger zerolog.Logger) *GDPRController {
	return &GDPRController{gdprService: gdprService, logger: logger}
}

// ExportData bundles everything held about the caller
// @Summary Export personal data
// @Description Returns the caller's account, profile, applications, documents metadata and notifications in one payload.
// @Tags gdpr
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ExportResponse}
// @Router /gdpr/export [get]
func (c *GDPRController) ExportData(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	export, err := c.gdprService.Export(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(export))
}

// EraseData anonymizes the caller's account
// @Summary Erase personal data
// @Description Anonymizes the account and profile, deletes drafts, documents and notifications. Blocked while an application is active.
// @Tags gdpr
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ErasureResponse}
// @Failure 409 {object} dto.ErrorResponse "An application is still active"
// @Router /gdpr/erase [delete]
func (c *GDPRController) EraseData(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	result, err := c.gdprService.Erase(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", userID).Msg("User data erased on request")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// RectifyData corrects profile fields with an audit trail
// @Summary Rectify personal data
// @Tags gdpr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RectifyRequest true "Fields to correct"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Router /gdpr/rectify [patch]
func (c *GDPRController) RectifyData(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	var req dto.RectifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.gdprService.Rectify(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RecordConsent records a consent grant or withdrawal
// @Summary Record consent
// @Tags gdpr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ConsentRequest true "Consent payload"
// @Success 200 {object} dto.APIResponse "Consent recorded"
// @Router /gdpr/consent [post]
func (c *GDPRController) RecordConsent(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	var req dto.ConsentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.gdprService.RecordConsent(ctx.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Consent recorded"))
}
