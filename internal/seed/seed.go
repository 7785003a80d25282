package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/app/repositories"
	"github.com/vidyadaan/scholarhub/internal/db"
	"github.com/vidyadaan/scholarhub/internal/pkg/auth"
)

const adminEmail = "admin@scholarhub.app"

// CreateDefaultData seeds a development-friendly data set: an admin, a
// reviewer, a few students and scholarships, plus applications in various
// workflow states. The whole seed is skipped once the admin account exists.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(database.Pool)
	studentRepo := repositories.NewStudentRepository(database.Pool)
	scholarshipRepo := repositories.NewScholarshipRepository(database.Pool)
	applicationRepo := repositories.NewApplicationRepository(database.Pool)
	paymentRepo := repositories.NewPaymentRepository(database.Pool)
	notificationRepo := repositories.NewNotificationRepository(database.Pool)

	exists, err := userRepo.EmailExists(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if exists {
		lgr.Debug().Msg("Seed data already present, skipping")
		return nil
	}

	lgr.Info().Msg("Seeding default data...")

	admin, err := createUser(ctx, userRepo, adminEmail, "Admin123!", models.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if _, err := createUser(ctx, userRepo, "reviewer@scholarhub.app", "Reviewer123!", models.RoleReviewer); err != nil {
		return err
	}

	students, err := createStudents(ctx, userRepo, studentRepo)
	if err != nil {
		return err
	}

	scholarships, err := createScholarships(ctx, scholarshipRepo, admin.ID)
	if err != nil {
		return err
	}

	if err := createApplications(ctx, database, applicationRepo, scholarshipRepo, paymentRepo, notificationRepo, students, scholarships); err != nil {
		return err
	}

	lgr.Info().Msg("Seed data created")
	return nil
}

func createUser(ctx context.Context, repo *repositories.UserRepository, email, password string, role models.RoleType) (*models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}
	user := &models.User{
		Email:    email,
		Password: hashed,
		RoleType: role,
		IsActive: true,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create seed user %s: %w", email, err)
	}
	return user, nil
}

func createStudents(ctx context.Context, userRepo *repositories.UserRepository, studentRepo *repositories.StudentRepository) ([]*models.Student, error) {
	seedStudents := []struct {
		email     string
		firstName string
		lastName  string
		verified  bool
		income    float64
	}{
		{"priya.sharma@example.com", "Priya", "Sharma", true, 180000},
		{"rahul.verma@example.com", "Rahul", "Verma", true, 420000},
		{"anita.desai@example.com", "Anita", "Desai", false, 95000},
	}

	var students []*models.Student
	for _, s := range seedStudents {
		user, err := createUser(ctx, userRepo, s.email, "Student123!", models.RoleStudent)
		if err != nil {
			return nil, err
		}
		student := &models.Student{
			UserID:    user.ID,
			FirstName: s.firstName,
			LastName:  s.lastName,
		}
		if err := studentRepo.Create(ctx, student); err != nil {
			return nil, fmt.Errorf("failed to create seed student %s: %w", s.email, err)
		}
		income := s.income
		fields := map[string]interface{}{"family_income": income}
		if err := studentRepo.UpdateProfile(ctx, student.ID, fields); err != nil {
			return nil, fmt.Errorf("failed to set seed student income: %w", err)
		}
		if s.verified {
			if err := studentRepo.SetVerified(ctx, student.ID, true); err != nil {
				return nil, fmt.Errorf("failed to verify seed student: %w", err)
			}
			student.IsVerified = true
		}
		students = append(students, student)
	}
	return students, nil
}

func createScholarships(ctx context.Context, repo *repositories.ScholarshipRepository, creatorID int64) ([]*models.Scholarship, error) {
	now := time.Now()
	year := fmt.Sprintf("%d-%d", now.Year(), now.Year()+1)

	meritCriteria, _ := json.Marshal(map[string]interface{}{"minPercentage": 80})
	incomeCriteria, _ := json.Marshal(map[string]interface{}{"maxFamilyIncome": 250000})

	seedScholarships := []*models.Scholarship{
		{
			Title:                "TVS Merit Scholarship 2024",
			Description:          "Merit award for students scoring above 80 percent.",
			EligibilityCriteria:  meritCriteria,
			Amount:               50000,
			Category:             "MERIT",
			ApplicationStartDate: now.AddDate(0, -1, 0),
			ApplicationEndDate:   now.AddDate(0, 2, 0),
			AcademicYear:         year,
			MaxApplications:      500,
			DocumentsRequired:    []string{"MARKSHEET", "AADHAR_CARD"},
			IsActive:             true,
			CreatedBy:            creatorID,
		},
		{
			Title:                "National Talent Grant 2024",
			Description:          "Support for students from households under the income ceiling.",
			EligibilityCriteria:  incomeCriteria,
			Amount:               30000,
			Category:             "NEED_BASED",
			ApplicationStartDate: now.AddDate(0, -1, 0),
			ApplicationEndDate:   now.AddDate(0, 3, 0),
			AcademicYear:         year,
			MaxApplications:      200,
			DocumentsRequired:    []string{"INCOME_CERTIFICATE", "BANK_PASSBOOK"},
			IsActive:             true,
			CreatedBy:            creatorID,
		},
		{
			Title:                "Rural Education Support 2024",
			Description:          "Support for students continuing education in rural districts.",
			Amount:               100000,
			Category:             "NEED_BASED",
			ApplicationStartDate: now.AddDate(0, 1, 0),
			ApplicationEndDate:   now.AddDate(0, 4, 0),
			AcademicYear:         year,
			MaxApplications:      50,
			DocumentsRequired:    []string{"MARKSHEET"},
			IsActive:             true,
			CreatedBy:            creatorID,
		},
	}

	for _, sch := range seedScholarships {
		if err := repo.Create(ctx, sch); err != nil {
			return nil, fmt.Errorf("failed to create seed scholarship %q: %w", sch.Title, err)
		}
	}
	return seedScholarships, nil
}

func createApplications(
	ctx context.Context,
	database *db.PostgresDB,
	applicationRepo *repositories.ApplicationRepository,
	scholarshipRepo *repositories.ScholarshipRepository,
	paymentRepo *repositories.PaymentRepository,
	notificationRepo *repositories.NotificationRepository,
	students []*models.Student,
	scholarships []*models.Scholarship,
) error {
	if len(students) < 3 || len(scholarships) < 2 {
		return nil
	}
	now := time.Now()

	// Approved application with its pending payment stub and decision
	// notification, mirroring what a real review produces.
	approved := &models.Application{
		StudentID:     students[0].ID,
		ScholarshipID: scholarships[0].ID,
		Status:        models.StatusSubmitted,
		SubmittedAt:   &now,
	}
	err := database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := scholarshipRepo.IncrementApplications(ctx, tx, approved.ScholarshipID); err != nil {
			return err
		}
		if err := applicationRepo.Create(ctx, tx, approved); err != nil {
			return err
		}
		notes := "Strong academic record, all documents in order."
		awarded := scholarships[0].Amount
		reviewedAt := now
		approvedAt := now
		if err := applicationRepo.ApplyReview(ctx, tx, approved.ID, approved.Version, repositories.ReviewUpdate{
			Status:        models.StatusApproved,
			ReviewerNotes: &notes,
			AwardedAmount: &awarded,
			ReviewedAt:    &reviewedAt,
			ApprovedAt:    &approvedAt,
		}); err != nil {
			return err
		}
		remarks := "Disbursement pending bank verification"
		return paymentRepo.Create(ctx, tx, &models.Payment{
			ApplicationID: approved.ID,
			Amount:        awarded,
			Status:        models.PaymentPending,
			Remarks:       &remarks,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to seed approved application: %w", err)
	}
	if err := notificationRepo.Create(ctx, &models.Notification{
		UserID:  students[0].UserID,
		Title:   "Application approved",
		Message: fmt.Sprintf("Your application for %q has been approved.", scholarships[0].Title),
		Type:    models.NotificationSuccess,
	}); err != nil {
		return fmt.Errorf("failed to seed approval notification: %w", err)
	}

	// Application sitting in review
	underReview := &models.Application{
		StudentID:     students[1].ID,
		ScholarshipID: scholarships[0].ID,
		Status:        models.StatusUnderReview,
		SubmittedAt:   &now,
	}
	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := scholarshipRepo.IncrementApplications(ctx, tx, underReview.ScholarshipID); err != nil {
			return err
		}
		return applicationRepo.Create(ctx, tx, underReview)
	})
	if err != nil {
		return fmt.Errorf("failed to seed in-review application: %w", err)
	}

	// Unsubmitted draft
	draft := &models.Application{
		StudentID:     students[2].ID,
		ScholarshipID: scholarships[1].ID,
		Status:        models.StatusDraft,
	}
	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return applicationRepo.Create(ctx, tx, draft)
	})
	if err != nil {
		return fmt.Errorf("failed to seed draft application: %w", err)
	}

	return nil
}
