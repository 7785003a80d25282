package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/services"
	"github.com/vidyadaan/scholarhub/internal/middleware"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
)

// NotificationController handles the per-user notification inbox
type NotificationController struct {
	notificationService services.NotificationService
	logger              zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService, logger zerolog.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

// ListNotifications returns a page of the caller's inbox
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} dto.APIResponse{data=[]dto.NotificationResponse}
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	userID, _ := middleware.GetUserID(ctx)
	unreadOnly := ctx.Query("unread") == "true"

	notifications, pagination, err := c.notificationService.List(ctx.Request.Context(), userID, unreadOnly, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(notifications, pagination))
}

// GetUnreadCount returns the unread badge count
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse}
// @Router /notifications/unread-count [get]
func (c *NotificationController) GetUnreadCount(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	count, err := c.notificationService.UnreadCount(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UnreadCountResponse{Unread: count}))
}

// MarkRead flips one notification to read
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse "Notification marked read"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	if err := c.notificationService.MarkRead(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Notification marked read"))
}

// MarkAllRead flips the whole inbox to read
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "All notifications marked read"
// @Router /notifications/read-all [patch]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	userID, _ := middleware.GetUserID(ctx)

	if _, err := c.notificationService.MarkAllRead(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("All notifications marked read"))
}
