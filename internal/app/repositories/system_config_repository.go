package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vidyadaan/scholarhub/internal/app/models"
)

// SystemConfigRepository handles database operations for runtime tunables
type SystemConfigRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSystemConfigRepository creates a new SystemConfigRepository
func NewSystemConfigRepository(db *pgxpool.Pool) *SystemConfigRepository {
	return &SystemConfigRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll retrieves every system config row.
func (r *SystemConfigRepository) GetAll(ctx context.Context) ([]models.SystemConfig, error) {
	sql, args, err := r.sb.Select("id", "key", "value", "type", "updated_at").
		From("system_config").
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get system config query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying system config: %w", err)
	}
	defer rows.Close()

	var configs []models.SystemConfig
	for rows.Next() {
		var c models.SystemConfig
		if err := rows.Scan(&c.ID, &c.Key, &c.Value, &c.Type, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan system config row: %w", err)
		}
		configs = append(configs, c)
	}

	return configs, rows.Err()
}

// Upsert writes a config value, inserting or overwriting by key.
func (r *SystemConfigRepository) Upsert(ctx context.Context, key, value, valueType string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO system_config (key, value, type, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET value = $2, type = $3, updated_at = $4
	`, key, value, valueType, time.Now())
	if err != nil {
		return fmt.Errorf("error upserting system config key=%s: %w", key, err)
	}
	return nil
}
