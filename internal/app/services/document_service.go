package services

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/config"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/filestorage"
	"github.com/vidyadaan/scholarhub/internal/pkg/helpers"
)

// allowedDocumentMimeTypes whitelists upload content types. The extension
// check below backs this up because multipart headers are client-supplied.
var allowedDocumentMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

var allowedDocumentExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// DocumentService manages uploaded supporting documents. Bytes go to local
// storage, metadata to PostgreSQL, and a verification mirror to the side store.
type DocumentService interface {
	Upload(ctx context.Context, userID int64, fileHeader *multipart.FileHeader, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error)
	Get(ctx context.Context, userID int64, role models.RoleType, id int64) (*dto.DocumentResponse, error)
	ResolveFile(ctx context.Context, userID int64, role models.RoleType, id int64) (string, *models.Document, error)
	List(ctx context.Context, userID int64, role models.RoleType, filter *dto.DocumentFilterRequest) ([]dto.DocumentResponse, dto.PaginationInfo, error)
	Verify(ctx context.Context, verifierID, id int64, req *dto.VerifyDocumentRequest) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, userID int64, id int64) error
}

type documentService struct {
	repo        *repositories.DocumentRepository
	studentRepo *repositories.StudentRepository
	appRepo     *repositories.ApplicationRepository
	storage     filestorage.FileStorage
	notifier    NotificationService
	audit       AuditService
	cfg         *config.Config
	logger      zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	repo *repositories.DocumentRepository,
	studentRepo *repositories.StudentRepository,
	appRepo *repositories.ApplicationRepository,
	storage filestorage.FileStorage,
	notifier NotificationService,
	audit AuditService,
	cfg *config.Config,
	logger zerolog.Logger,
) DocumentService {
	return &documentService{
		repo:        repo,
		studentRepo: studentRepo,
		appRepo:     appRepo,
		storage:     storage,
		notifier:    notifier,
		audit:       audit,
		cfg:         cfg,
		logger:      logger,
	}
}

// Upload stores the file and its metadata for the calling student. When
// applicationId is supplied the document is attached to that application,
// which must belong to the same student.
func (s *documentService) Upload(ctx context.Context, userID int64, fileHeader *multipart.FileHeader, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError("unknown document type")
	}
	if fileHeader.Size > s.cfg.MaxUploadSizeBytes() {
		return nil, apperrors.ErrFileTooLarge
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedDocumentMimeTypes[mimeType] || !allowedDocumentExtensions[ext] {
		return nil, apperrors.ErrUnsupportedFile
	}

	if req.ApplicationID != nil {
		app, err := s.appRepo.GetByID(ctx, *req.ApplicationID)
		if err != nil {
			return nil, err
		}
		if app.StudentID != student.ID {
			return nil, apperrors.ErrPermissionDenied
		}
	}

	storedPath, err := s.storage.SaveFileWithPath(fileHeader, "documents")
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		StudentID:     student.ID,
		ApplicationID: req.ApplicationID,
		Type:          req.Type,
		FileName:      filepath.Base(storedPath),
		OriginalName:  fileHeader.Filename,
		FilePath:      storedPath,
		FileSize:      fileHeader.Size,
		MimeType:      mimeType,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		// Orphaned bytes are worse than a lost upload
		if delErr := s.storage.DeleteFile(storedPath); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", storedPath).Msg("Failed to remove file after metadata insert failure")
		}
		return nil, err
	}

	s.audit.MirrorDocument(doc)
	s.audit.Record(userID, "document.upload", "document", &doc.ID, nil,
		map[string]interface{}{"type": string(doc.Type), "size": doc.FileSize})

	resp := dto.NewDocumentResponse(doc)
	return &resp, nil
}

// Get returns document metadata, enforcing student ownership.
func (s *documentService) Get(ctx context.Context, userID int64, role models.RoleType, id int64) (*dto.DocumentResponse, error) {
	doc, err := s.getAuthorized(ctx, userID, role, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewDocumentResponse(doc)
	return &resp, nil
}

// ResolveFile returns the on-disk path for a download, enforcing the same
// access rules as Get.
func (s *documentService) ResolveFile(ctx context.Context, userID int64, role models.RoleType, id int64) (string, *models.Document, error) {
	doc, err := s.getAuthorized(ctx, userID, role, id)
	if err != nil {
		return "", nil, err
	}
	fullPath := s.storage.GetFullPath(doc.FilePath)
	if fullPath == "" {
		return "", nil, apperrors.ErrDocumentNotFound
	}
	return fullPath, doc, nil
}

// List returns a page of document metadata. Students are scoped to their own
// documents regardless of the requested filter.
func (s *documentService) List(ctx context.Context, userID int64, role models.RoleType, filter *dto.DocumentFilterRequest) ([]dto.DocumentResponse, dto.PaginationInfo, error) {
	filters := make(map[string]interface{})

	if role == models.RoleStudent {
		student, err := s.studentRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, dto.PaginationInfo{}, err
		}
		filters["student_id"] = student.ID
	} else if filter.StudentID != nil {
		filters["student_id"] = *filter.StudentID
	}
	if filter.ApplicationID != nil {
		filters["application_id"] = *filter.ApplicationID
	}
	if filter.Type != nil {
		filters["type"] = string(*filter.Type)
	}
	if filter.VerifiedOnly {
		filters["is_verified"] = true
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	documents, total, err := s.repo.List(ctx, filters, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	responses := make([]dto.DocumentResponse, 0, len(documents))
	for i := range documents {
		responses = append(responses, dto.NewDocumentResponse(&documents[i]))
	}

	return responses, helpers.NewPaginationInfo(total, filter.Page, filter.PageSize), nil
}

// Verify records the reviewer verdict, mirrors it to the side store and
// notifies the student. Rejection requires a reason.
func (s *documentService) Verify(ctx context.Context, verifierID, id int64, req *dto.VerifyDocumentRequest) (*dto.DocumentResponse, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var rejectionReason *string
	if !req.Verified {
		if strings.TrimSpace(req.RejectionReason) == "" {
			return nil, apperrors.NewValidationError("rejectionReason is required when rejecting a document")
		}
		reason := req.RejectionReason
		rejectionReason = &reason
	}

	if err := s.repo.SetVerification(ctx, id, verifierID, req.Verified, rejectionReason); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.MirrorDocument(updated)
	s.audit.Record(verifierID, "document.verify", "document", &id, nil,
		map[string]interface{}{"verified": req.Verified})

	if student, err := s.studentRepo.GetByID(ctx, doc.StudentID); err == nil {
		title := "Document verified"
		message := "Your document " + doc.OriginalName + " has been verified."
		nType := models.NotificationSuccess
		if !req.Verified {
			title = "Document rejected"
			message = "Your document " + doc.OriginalName + " was rejected: " + req.RejectionReason
			nType = models.NotificationError
		}
		notifyAsync(s.notifier, s.logger, student.UserID, title, message, nType,
			map[string]interface{}{"documentId": doc.ID})
	}

	resp := dto.NewDocumentResponse(updated)
	return &resp, nil
}

// Delete removes a student's own document and its stored bytes. Verified
// documents stay put; they back an application on record.
func (s *documentService) Delete(ctx context.Context, userID int64, id int64) error {
	student, err := s.studentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.StudentID != student.ID {
		return apperrors.ErrPermissionDenied
	}
	if doc.IsVerified {
		return apperrors.NewConflictError("verified documents cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.DeleteFile(doc.FilePath); err != nil {
		s.logger.Warn().Err(err).Str("path", doc.FilePath).Msg("Failed to delete document file")
	}
	s.audit.Record(userID, "document.delete", "document", &id, nil, nil)
	return nil
}

func (s *documentService) getAuthorized(ctx context.Context, userID int64, role models.RoleType, id int64) (*models.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == models.RoleStudent {
		student, err := s.studentRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if doc.StudentID != student.ID {
			return nil, apperrors.ErrPermissionDenied
		}
	}
	return doc, nil
}
