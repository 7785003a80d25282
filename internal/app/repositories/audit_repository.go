package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidyadaan/scholarhub/internal/app/models"
)

// Mongo collection names.
const (
	collAuditLogs           = "audit_logs"
	collApplicationVersions = "application_versions"
	collDocumentMetadata    = "document_metadata"
)

// AuditRepository handles the MongoDB side store: the append-only audit
// trail, application snapshots and the document metadata mirror. A nil
// database turns every operation into a no-op so the service keeps working
// when Mongo is not configured.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository. db may be nil.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// InsertAuditLog appends one audit record.
func (r *AuditRepository) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.Collection(collAuditLogs).InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("error inserting audit log: %w", err)
	}
	return nil
}

// InsertApplicationVersion appends one pre-review application snapshot.
func (r *AuditRepository) InsertApplicationVersion(ctx context.Context, snapshot *models.ApplicationVersion) error {
	if r.db == nil {
		return nil
	}
	_, err := r.db.Collection(collApplicationVersions).InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("error inserting application version: %w", err)
	}
	return nil
}

// UpsertDocumentMetadata mirrors a document's verification state, keyed by
// the relational document id so retries stay idempotent.
func (r *AuditRepository) UpsertDocumentMetadata(ctx context.Context, meta *models.DocumentMetadata) error {
	if r.db == nil {
		return nil
	}
	filter := bson.M{"documentId": meta.DocumentID}
	update := bson.M{"$set": meta}
	opts := options.Update().SetUpsert(true)

	_, err := r.db.Collection(collDocumentMetadata).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("error upserting document metadata: %w", err)
	}
	return nil
}

// ListAuditLogs retrieves audit entries newest first, optionally filtered by
// user and entity.
func (r *AuditRepository) ListAuditLogs(ctx context.Context, userID int64, entity string, limit int64) ([]models.AuditLog, error) {
	if r.db == nil {
		return nil, nil
	}

	filter := bson.M{}
	if userID > 0 {
		filter["userId"] = userID
	}
	if entity != "" {
		filter["entity"] = entity
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.db.Collection(collAuditLogs).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying audit logs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding audit logs: %w", err)
	}

	return entries, nil
}

// ListApplicationVersions retrieves the snapshot history of one application,
// newest first.
func (r *AuditRepository) ListApplicationVersions(ctx context.Context, applicationID int64) ([]models.ApplicationVersion, error) {
	if r.db == nil {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})
	cursor, err := r.db.Collection(collApplicationVersions).Find(ctx, bson.M{"applicationId": applicationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying application versions: %w", err)
	}
	defer cursor.Close(ctx)

	var versions []models.ApplicationVersion
	if err := cursor.All(ctx, &versions); err != nil {
		return nil, fmt.Errorf("error decoding application versions: %w", err)
	}

	return versions, nil
}

// DeleteUserAuditData scrubs Mongo-side personal data for a user during GDPR
// erasure. The audit trail itself is kept but detached from old/new values.
func (r *AuditRepository) DeleteUserAuditData(ctx context.Context, userID int64) error {
	if r.db == nil {
		return nil
	}

	_, err := r.db.Collection(collAuditLogs).UpdateMany(ctx,
		bson.M{"userId": userID},
		bson.M{"$unset": bson.M{"oldValues": "", "newValues": "", "ipAddress": "", "userAgent": ""}},
	)
	if err != nil {
		return fmt.Errorf("error scrubbing audit data for user ID=%d: %w", userID, err)
	}
	return nil
}
