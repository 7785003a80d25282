package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	StudentRepository      *StudentRepository
	ScholarshipRepository  *ScholarshipRepository
	ApplicationRepository  *ApplicationRepository
	DocumentRepository     *DocumentRepository
	PaymentRepository      *PaymentRepository
	NotificationRepository *NotificationRepository
	SystemConfigRepository *SystemConfigRepository
	AuditRepository        *AuditRepository
}

// NewRepositories initializes all repositories. mongoDB may be nil when the
// document store is not configured.
func NewRepositories(db *pgxpool.Pool, mongoDB *mongo.Database) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		StudentRepository:      NewStudentRepository(db),
		ScholarshipRepository:  NewScholarshipRepository(db),
		ApplicationRepository:  NewApplicationRepository(db),
		DocumentRepository:     NewDocumentRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		SystemConfigRepository: NewSystemConfigRepository(db),
		AuditRepository:        NewAuditRepository(mongoDB),
	}
}
