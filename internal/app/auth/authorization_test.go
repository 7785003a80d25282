package auth

import (
	"testing"

	"github.com/vidyadaan/scholarhub/internal/app/models"
)

func TestCapabilityTable(t *testing.T) {
	tests := []struct {
		name string
		role models.RoleType
		cap  Capability
		want bool
	}{
		{"student can apply", models.RoleStudent, CapApply, true},
		{"student cannot review", models.RoleStudent, CapReviewApplications, false},
		{"student cannot manage scholarships", models.RoleStudent, CapManageScholarships, false},
		{"reviewer can review", models.RoleReviewer, CapReviewApplications, true},
		{"reviewer cannot apply", models.RoleReviewer, CapApply, false},
		{"reviewer cannot manage payments", models.RoleReviewer, CapManagePayments, false},
		{"admin can manage scholarships", models.RoleAdmin, CapManageScholarships, true},
		{"admin cannot manage system config", models.RoleAdmin, CapManageSystemConfig, false},
		{"super admin can manage system config", models.RoleSuperAdmin, CapManageSystemConfig, true},
		{"super admin can manage users", models.RoleSuperAdmin, CapManageUsers, true},
		{"unknown role holds nothing", models.RoleType("GUEST"), CapViewScholarships, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.role, tt.cap); got != tt.want {
				t.Errorf("Can(%s, %s) = %v, want %v", tt.role, tt.cap, got, tt.want)
			}
		})
	}
}

func TestSuperAdminSupersetOfAdmin(t *testing.T) {
	for cap := range capabilities[models.RoleAdmin] {
		if !Can(models.RoleSuperAdmin, cap) {
			t.Errorf("SUPER_ADMIN missing admin capability %s", cap)
		}
	}
}

func TestRequire(t *testing.T) {
	if err := Require(models.RoleStudent, CapApply); err != nil {
		t.Errorf("Require(STUDENT, apply) = %v, want nil", err)
	}
	if err := Require(models.RoleStudent, CapReviewApplications); err == nil {
		t.Error("Require(STUDENT, review) = nil, want error")
	}
}
