package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andrino-academy/andrino-api/internal/models"
)

const configurationColumns = `key, value, type, description, updated_by, updated_at`

// ConfigurationRepository stores the scheduling settings rows.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// Get fetches a setting by key. A missing key returns sql.ErrNoRows unwrapped
// so callers can fall back to defaults.
func (r *ConfigurationRepository) Get(ctx context.Context, key string) (*models.Configuration, error) {
	const query = `SELECT ` + configurationColumns + ` FROM configurations WHERE key = $1`
	var cfg models.Configuration
	if err := r.db.GetContext(ctx, &cfg, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get configuration %q: %w", key, err)
	}
	return &cfg, nil
}

// Upsert writes the setting and stamps cfg with the database time of the write.
func (r *ConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	const query = `INSERT INTO configurations (key, value, type, description, updated_by, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type,
              description = COALESCE(EXCLUDED.description, configurations.description),
              updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at
RETURNING updated_at`
	if err := r.db.QueryRowxContext(ctx, query, cfg.Key, cfg.Value, cfg.Type, cfg.Description, cfg.UpdatedBy).Scan(&cfg.UpdatedAt); err != nil {
		return fmt.Errorf("upsert configuration %q: %w", cfg.Key, err)
	}
	return nil
}
