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

// PaymentController handles disbursement record endpoints
type PaymentController struct {
	paymentService services.PaymentService
	logger         zerolog.Logger
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService, logger zerolog.Logger) *PaymentController {
	return &PaymentController{paymentService: paymentService, logger: logger}
}

// GetPayment returns one payment
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentResponse}
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /payments/{id} [get]
func (c *PaymentController) GetPayment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)

	resp, err := c.paymentService.Get(ctx.Request.Context(), userID, role, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListPayments returns a page of payments
// @Summary List payments
// @Description Students see payments on their own applications only.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param status query string false "Status filter" Enums(PENDING, COMPLETED, FAILED)
// @Param applicationId query int false "Application filter"
// @Success 200 {object} dto.APIResponse{data=[]dto.PaymentResponse}
// @Router /payments [get]
func (c *PaymentController) ListPayments(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	userID, _ := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)

	filter := &dto.PaymentFilterRequest{Page: page, PageSize: limit}
	if status := ctx.Query("status"); status != "" {
		s := models.PaymentStatus(status)
		filter.Status = &s
	}
	if applicationID := ctx.Query("applicationId"); applicationID != "" {
		if id, err := strconv.ParseInt(applicationID, 10, 64); err == nil {
			filter.ApplicationID = &id
		}
	}

	payments, pagination, err := c.paymentService.List(ctx.Request.Context(), userID, role, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(payments, pagination))
}

// ListApplicationPayments returns the payments for one application
// @Summary List payments for an application
// @Description Students see the list only for their own applications.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=[]dto.PaymentResponse}
// @Router /applications/{id}/payments [get]
func (c *PaymentController) ListApplicationPayments(ctx *gin.Context) {
	applicationID, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	page, limit := helpers.ParsePaginationParams(ctx)
	userID, _ := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)

	filter := &dto.PaymentFilterRequest{ApplicationID: &applicationID, Page: page, PageSize: limit}
	payments, pagination, err := c.paymentService.List(ctx.Request.Context(), userID, role, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(payments, pagination))
}

// UpdatePaymentStatus moves a payment through its lifecycle
// @Summary Update payment status
// @Description PENDING to COMPLETED or FAILED; FAILED back to PENDING for a retry. Completion requires a transactionId.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param request body dto.UpdatePaymentStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentResponse}
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /payments/{id}/status [patch]
func (c *PaymentController) UpdatePaymentStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	adminID, _ := middleware.GetUserID(ctx)

	resp, err := c.paymentService.UpdateStatus(ctx.Request.Context(), adminID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("paymentID", id).Str("status", string(req.Status)).Msg("Payment status updated")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
