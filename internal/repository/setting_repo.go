package repository

import (
	"context"
	"fmt"

	"ougadgets/internal/model"
)

// SettingRepository defines operations for the key/value settings table
type SettingRepository interface {
	FindAll(ctx context.Context) ([]model.Setting, error)
	Upsert(ctx context.Context, key, value string) (*model.Setting, error)
}

type settingRepository struct {
	db DBTX
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db DBTX) SettingRepository {
	return &settingRepository{db: db}
}

// FindAll returns every stored setting ordered by key
func (r *settingRepository) FindAll(ctx context.Context) ([]model.Setting, error) {
	rows, err := r.db.Query(ctx, `SELECT id, key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := []model.Setting{}
	for rows.Next() {
		var s model.Setting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings = append(settings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating setting rows: %w", err)
	}
	return settings, nil
}

// Upsert inserts the key or overwrites its value
func (r *settingRepository) Upsert(ctx context.Context, key, value string) (*model.Setting, error) {
	sql := `INSERT INTO settings (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
            RETURNING id, key, value`
	s := &model.Setting{}
	if err := r.db.QueryRow(ctx, sql, key, value).Scan(&s.ID, &s.Key, &s.Value); err != nil {
		return nil, fmt.Errorf("failed to upsert setting %q: %w", key, err)
	}
	return s, nil
}
