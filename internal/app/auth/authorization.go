package auth

import (
	"context"
	"errors"

	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/pkg/apperrors"
	"github.com/vidyadaan/scholarhub/internal/pkg/logger"
)

// Capability names a discrete action the API can perform. Authorization is a
// role-to-capability lookup checked once at the request boundary; handlers
// never branch on role names directly.
type Capability string

const (
	CapManageOwnProfile     Capability = "profile:manage-own"
	CapViewStudents         Capability = "students:view"
	CapVerifyStudents       Capability = "students:verify"
	CapViewScholarships     Capability = "scholarships:view"
	CapManageScholarships   Capability = "scholarships:manage"
	CapApply                Capability = "applications:apply"
	CapViewOwnApplications  Capability = "applications:view-own"
	CapViewAllApplications  Capability = "applications:view-all"
	CapReviewApplications   Capability = "applications:review"
	CapUploadDocuments      Capability = "documents:upload"
	CapVerifyDocuments      Capability = "documents:verify"
	CapViewOwnPayments      Capability = "payments:view-own"
	CapManagePayments       Capability = "payments:manage"
	CapManageSystemConfig   Capability = "system:config"
	CapViewAuditLogs        Capability = "system:audit"
	CapRequestErasure       Capability = "gdpr:erasure"
	CapManageUsers          Capability = "users:manage"
)

// capabilities is the full role grant table. SUPER_ADMIN is a strict superset
// of ADMIN; REVIEWER holds only review-side grants and never applies.
var capabilities = map[models.RoleType]map[Capability]bool{
	models.RoleStudent: {
		CapManageOwnProfile:    true,
		CapViewScholarships:    true,
		CapApply:               true,
		CapViewOwnApplications: true,
		CapUploadDocuments:     true,
		CapViewOwnPayments:     true,
		CapRequestErasure:      true,
	},
	models.RoleReviewer: {
		CapViewStudents:        true,
		CapViewScholarships:    true,
		CapViewAllApplications: true,
		CapReviewApplications:  true,
		CapVerifyDocuments:     true,
	},
	models.RoleAdmin: {
		CapManageOwnProfile:    true,
		CapViewStudents:        true,
		CapVerifyStudents:      true,
		CapViewScholarships:    true,
		CapManageScholarships:  true,
		CapViewAllApplications: true,
		CapReviewApplications:  true,
		CapVerifyDocuments:     true,
		CapManagePayments:      true,
		CapViewAuditLogs:       true,
	},
	models.RoleSuperAdmin: {
		CapManageOwnProfile:    true,
		CapViewStudents:        true,
		CapVerifyStudents:      true,
		CapViewScholarships:    true,
		CapManageScholarships:  true,
		CapViewAllApplications: true,
		CapReviewApplications:  true,
		CapVerifyDocuments:     true,
		CapManagePayments:      true,
		CapManageSystemConfig:  true,
		CapViewAuditLogs:       true,
		CapManageUsers:         true,
	},
}

// Can reports whether a role holds a capability.
func Can(role models.RoleType, cap Capability) bool {
	return capabilities[role][cap]
}

// Require returns ErrPermissionDenied when the role lacks the capability.
func Require(role models.RoleType, cap Capability) error {
	if !Can(role, cap) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// AuthorizationService resolves the account behind a validated token. The
// auth middleware uses it so a deactivated or erased account is cut off
// immediately instead of riding out its remaining token lifetime, and so
// role changes take effect without a re-login.
type AuthorizationService struct {
	userRepo *repositories.UserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo *repositories.UserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// GetUserInfo returns the current account record for a user ID.
func (s *AuthorizationService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in GetUserInfo")
		return nil, err
	}
	return user, nil
}
