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

// DocumentController handles document upload, verification and download
type DocumentController struct {
	documentService services.DocumentService
	logger          zerolog.Logger
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService, logger zerolog.Logger) *DocumentController {
	return &DocumentController{documentService: documentService, logger: logger}
}

// UploadDocument stores a supporting document
// @Summary Upload a document
// @Description Accepts a multipart file plus type and optional applicationId form fields.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document file (pdf, jpg, png, webp)"
// @Param type formData string true "Document type" Enums(INCOME_CERTIFICATE, MARKSHEET, AADHAR_CARD, PAN_CARD, BANK_PASSBOOK, CASTE_CERTIFICATE, OTHER)
// @Param applicationId formData int false "Application to attach to"
// @Success 201 {object} dto.APIResponse{data=dto.DocumentResponse}
// @Failure 400 {object} dto.ErrorResponse "File too large or unsupported type"
// @Router /documents [post]
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	var req dto.UploadDocumentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Missing file in multipart form")))
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	resp, err := c.documentService.Upload(ctx.Request.Context(), userID, fileHeader, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("documentID", resp.ID).Str("type", string(resp.Type)).Msg("Document uploaded")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetDocument returns document metadata
// @Summary Get document metadata
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse{data=dto.DocumentResponse}
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id} [get]
func (c *DocumentController) GetDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)

	resp, err := c.documentService.Get(ctx.Request.Context(), userID, role, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DownloadDocument streams the stored file
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {file} binary "Document bytes"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id}/download [get]
func (c *DocumentController) DownloadDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)

	fullPath, doc, err := c.documentService.ResolveFile(ctx.Request.Context(), userID, role, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Type", doc.MimeType)
	ctx.FileAttachment(fullPath, doc.OriginalName)
}

// ListDocuments returns a page of document metadata
// @Summary List documents
// @Description Students are scoped to their own documents regardless of filters.
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param type query string false "Document type filter"
// @Param studentId query int false "Student filter (review-side only)"
// @Param applicationId query int false "Application filter"
// @Param verified query bool false "Only verified documents"
// @Success 200 {object} dto.APIResponse{data=[]dto.DocumentResponse}
// @Router /documents [get]
func (c *DocumentController) ListDocuments(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)
	userID, _ := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)

	filter := &dto.DocumentFilterRequest{
		Page:         page,
		PageSize:     limit,
		VerifiedOnly: ctx.Query("verified") == "true",
	}
	if docType := ctx.Query("type"); docType != "" {
		t := models.DocumentType(docType)
		filter.Type = &t
	}
	if studentID := ctx.Query("studentId"); studentID != "" {
		if id, err := strconv.ParseInt(studentID, 10, 64); err == nil {
			filter.StudentID = &id
		}
	}
	if applicationID := ctx.Query("applicationId"); applicationID != "" {
		if id, err := strconv.ParseInt(applicationID, 10, 64); err == nil {
			filter.ApplicationID = &id
		}
	}

	documents, pagination, err := c.documentService.List(ctx.Request.Context(), userID, role, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(documents, pagination))
}

// VerifyDocument records the reviewer verdict on a document
// @Summary Verify or reject a document
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Param request body dto.VerifyDocumentRequest true "Verdict"
// @Success 200 {object} dto.APIResponse{data=dto.DocumentResponse}
// @Failure 400 {object} dto.ErrorResponse "Rejection without a reason"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id}/verify [patch]
func (c *DocumentController) VerifyDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.VerifyDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}
	verifierID, _ := middleware.GetUserID(ctx)

	resp, err := c.documentService.Verify(ctx.Request.Context(), verifierID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteDocument removes the caller's own document
// @Summary Delete a document
// @Description Removes an unverified document and its stored bytes.
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse "Document deleted"
// @Failure 409 {object} dto.ErrorResponse "Verified documents cannot be deleted"
// @Router /documents/{id} [delete]
func (c *DocumentController) DeleteDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(ctx)

	if err := c.documentService.Delete(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Document deleted"))
}
