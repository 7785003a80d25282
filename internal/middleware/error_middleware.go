package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
)

// HandleAPIError maps domain errors onto HTTP responses. Controllers funnel
// every service error through here so status codes stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// Not found
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrScholarshipNotFound),
		errors.Is(err, apperrors.ErrApplicationNotFound),
		errors.Is(err, apperrors.ErrDocumentNotFound),
		errors.Is(err, apperrors.ErrPaymentNotFound),
		errors.Is(err, apperrors.ErrNotificationNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()))

	// Workflow conflicts
	case errors.Is(err, apperrors.ErrReviewConflict):
		respond(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeReviewConflict, err.Error()))
	case errors.Is(err, apperrors.ErrScholarshipCapacityReached):
		respond(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeCapacityReached, err.Error()))
	case errors.Is(err, apperrors.ErrDuplicateApplication):
		respond(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()))
	case errors.Is(err, apperrors.ErrErasureBlocked):
		respond(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeErasureBlocked, err.Error()))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()))
	case errors.Is(err, apperrors.ErrConflict):
		respond(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()))

	// Bad requests
	case errors.Is(err, apperrors.ErrInvalidTransition):
		respond(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, err.Error()))
	case errors.Is(err, apperrors.ErrScholarshipClosed):
		respond(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeWindowClosed, err.Error()))
	case errors.Is(err, apperrors.ErrFileTooLarge),
		errors.Is(err, apperrors.ErrUnsupportedFile):
		respond(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error()))
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()))
	case errors.Is(err, apperrors.ErrBadRequest):
		respond(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, err.Error()))

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"))
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenRevoked),
		errors.Is(err, apperrors.ErrInvalidFormat):
		respond(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"))
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Token not found"))
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Account is disabled"))

	// Authorization and policy
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied"))
	case errors.Is(err, apperrors.ErrStudentNotVerified):
		respond(c, http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error()))
	case errors.Is(err, apperrors.ErrNotEligible):
		respond(c, http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error()))

	default:
		respond(c, http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}

func respond(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.JSON(status, dto.NewErrorResponse(detail))
}
