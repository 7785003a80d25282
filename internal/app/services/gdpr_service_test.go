package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/models/dto"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
)

type gdprUserFake struct {
	user       *models.User
	anonymized bool
}

func (f *gdprUserFake) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, apperrors.ErrUserNotFound
	}
	return f.user, nil
}

func (f *gdprUserFake) AnonymizeUser(ctx context.Context, userID int64) error {
	f.anonymized = true
	return nil
}

type gdprStudentFake struct {
	student    *models.Student
	anonymized bool
	updated    map[string]interface{}
}

func (f *gdprStudentFake) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	if f.student == nil || f.student.UserID != userID {
		return nil, apperrors.ErrStudentNotFound
	}
	return f.student, nil
}

func (f *gdprStudentFake) UpdateProfile(ctx context.Context, studentID int64, fields map[string]interface{}) error {
	f.updated = fields
	return nil
}

func (f *gdprStudentFake) AnonymizeStudent(ctx context.Context, studentID int64) error {
	f.anonymized = true
	return nil
}

type gdprApplicationFake struct {
	applications []models.Application
}

func (f *gdprApplicationFake) ListByStudent(ctx context.Context, studentID int64) ([]models.Application, error) {
	return f.applications, nil
}

func (f *gdprApplicationFake) DeleteDrafts(ctx context.Context, studentID int64) (int64, error) {
	return 1, nil
}

type gdprDocumentFake struct {
	paths   []string
	deleted bool
}

func (f *gdprDocumentFake) ListByStudent(ctx context.Context, studentID int64) ([]models.Document, error) {
	return nil, nil
}

func (f *gdprDocumentFake) DeleteByStudent(ctx context.Context, studentID int64) ([]string, error) {
	f.deleted = true
	return f.paths, nil
}

type gdprNotificationFake struct{}

func (f *gdprNotificationFake) ListByUser(ctx context.Context, userID int64, unreadOnly bool, offset uint64, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (f *gdprNotificationFake) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return 3, nil
}

type gdprTokenFake struct{ revoked bool }

func (f *gdprTokenFake) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	f.revoked = true
	return nil
}

// fakeStorage satisfies filestorage.FileStorage and records deletions.
type fakeStorage struct{ deleted []string }

func (f *fakeStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) { return "", nil }
func (f *fakeStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error) {
	return "", nil
}
func (f *fakeStorage) DeleteFile(filePath string) error {
	f.deleted = append(f.deleted, filePath)
	return nil
}
func (f *fakeStorage) GetFullPath(filePath string) string { return filePath }

type gdprFixture struct {
	users        *gdprUserFake
	students     *gdprStudentFake
	applications *gdprApplicationFake
	documents    *gdprDocumentFake
	tokens       *gdprTokenFake
	storage      *fakeStorage
	audit        *fakeAudit
	service      GDPRService
}

func newGDPRFixture() *gdprFixture {
	f := &gdprFixture{
		users:        &gdprUserFake{user: &models.User{ID: 100, Email: "priya.sharma@example.com", RoleType: models.RoleStudent, IsActive: true}},
		students:     &gdprStudentFake{student: &models.Student{ID: 10, UserID: 100, FirstName: "Priya", LastName: "Sharma"}},
		applications: &gdprApplicationFake{},
		documents:    &gdprDocumentFake{paths: []string{"documents/a.pdf"}},
		tokens:       &gdprTokenFake{},
		storage:      &fakeStorage{},
		audit:        &fakeAudit{},
	}
	f.service = NewGDPRService(
		f.users, f.students, f.applications, f.documents,
		&gdprNotificationFake{}, f.tokens, f.storage, f.audit, zerolog.Nop(),
	)
	return f
}

func TestErase(t *testing.T) {
	t.Run("blocked while an application is active", func(t *testing.T) {
		for _, status := range []models.ApplicationStatus{
			models.StatusSubmitted, models.StatusUnderReview, models.StatusOnHold, models.StatusApproved,
		} {
			f := newGDPRFixture()
			f.applications.applications = []models.Application{{ID: 1, StudentID: 10, Status: status}}

			_, err := f.service.Erase(context.Background(), 100)
			if !errors.Is(err, apperrors.ErrErasureBlocked) {
				t.Errorf("status %s: err = %v, want ErrErasureBlocked", status, err)
			}
			if f.users.anonymized || f.students.anonymized {
				t.Errorf("status %s: blocked erasure must not anonymize anything", status)
			}
		}
	})

	t.Run("terminal and draft applications do not block", func(t *testing.T) {
		f := newGDPRFixture()
		f.applications.applications = []models.Application{
			{ID: 1, StudentID: 10, Status: models.StatusRejected},
			{ID: 2, StudentID: 10, Status: models.StatusDraft},
		}

		result, err := f.service.Erase(context.Background(), 100)
		if err != nil {
			t.Fatalf("Erase() error = %v", err)
		}
		if !result.Anonymized {
			t.Error("erasure did not anonymize the user")
		}
		if !f.students.anonymized {
			t.Error("erasure did not anonymize the student profile")
		}
		if !f.documents.deleted {
			t.Error("erasure did not delete document metadata")
		}
		if len(f.storage.deleted) != 1 || f.storage.deleted[0] != "documents/a.pdf" {
			t.Errorf("deleted files = %v, want the stored document path", f.storage.deleted)
		}
		if !f.tokens.revoked {
			t.Error("erasure did not revoke refresh tokens")
		}
		if result.DraftsRemoved != 1 {
			t.Errorf("draftsRemoved = %d, want 1", result.DraftsRemoved)
		}
		if result.NotificationsRemoved != 3 {
			t.Errorf("notificationsRemoved = %d, want 3", result.NotificationsRemoved)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newGDPRFixture()
		_, err := f.service.Erase(context.Background(), 999)
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("err = %v, want ErrUserNotFound", err)
		}
	})
}

func TestExport(t *testing.T) {
	f := newGDPRFixture()
	f.applications.applications = []models.Application{
		{ID: 1, StudentID: 10, Status: models.StatusApproved, Version: 4},
	}

	export, err := f.service.Export(context.Background(), 100)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if export.Student == nil || export.Student.FirstName != "Priya" {
		t.Errorf("export student = %+v, want profile for Priya", export.Student)
	}
	if len(export.Applications) != 1 {
		t.Errorf("exported applications = %d, want 1", len(export.Applications))
	}
}

func TestRectify(t *testing.T) {
	f := newGDPRFixture()
	name := "Priyanka"
	req := &dto.RectifyRequest{Fields: dto.UpdateStudentRequest{FirstName: &name}}

	if _, err := f.service.Rectify(context.Background(), 100, req); err != nil {
		t.Fatalf("Rectify() error = %v", err)
	}
	if f.students.updated["first_name"] != name {
		t.Errorf("updated fields = %v, want first_name=%s", f.students.updated, name)
	}
	if len(f.audit.records) == 0 {
		t.Fatal("rectification was not audited")
	}

	last := len(f.audit.records) - 1
	if got := f.audit.oldValues[last]["first_name"]; got != "Priya" {
		t.Errorf("audited old value = %v, want the pre-update name Priya", got)
	}
	if got := f.audit.newValues[last]["first_name"]; got != name {
		t.Errorf("audited new value = %v, want %s", got, name)
	}
}
