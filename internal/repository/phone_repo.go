package repository

import (
	"context"
	"errors"
	"fmt"

	"ougadgets/internal/model"

	"github.com/jackc/pgx/v5"
)

// PhoneRepository defines operations for catalog listings
type PhoneRepository interface {
	FindAll(ctx context.Context) ([]model.Phone, error)
	FindByID(ctx context.Context, id string) (*model.Phone, error)
	Create(ctx context.Context, phone *model.Phone) error
	CreateMany(ctx context.Context, phones []model.Phone) error
	Update(ctx context.Context, phone *model.Phone) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

type phoneRepository struct {
	db DBTX
}

// NewPhoneRepository creates a new PhoneRepository
func NewPhoneRepository(db DBTX) PhoneRepository {
	return &phoneRepository{db: db}
}

const phoneColumns = `id, name, brand, ram, rom, color, battery, camera, front_camera,
	market_price, jumia_price, ou_price, description, images, added_date, condition,
	os, sim, inspection_video`

const insertPhoneSQL = `INSERT INTO phones (` + phoneColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

func scanPhone(row pgx.Row) (*model.Phone, error) {
	p := &model.Phone{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.RAM, &p.ROM, &p.Color, &p.Battery, &p.Camera, &p.FrontCamera,
		&p.MarketPrice, &p.JumiaPrice, &p.OUPrice, &p.Description, &p.Images, &p.AddedDate, &p.Condition,
		&p.OS, &p.SIM, &p.InspectionVideo,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func phoneArgs(p *model.Phone) []any {
	return []any{
		p.ID, p.Name, p.Brand, p.RAM, p.ROM, p.Color, p.Battery, p.Camera, p.FrontCamera,
		p.MarketPrice, p.JumiaPrice, p.OUPrice, p.Description, p.Images, p.AddedDate, p.Condition,
		p.OS, p.SIM, p.InspectionVideo,
	}
}

// FindAll returns every listing, newest first
func (r *phoneRepository) FindAll(ctx context.Context) ([]model.Phone, error) {
	sql := `SELECT ` + phoneColumns + ` FROM phones ORDER BY added_date DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query phones: %w", err)
	}
	defer rows.Close()

	phones := []model.Phone{}
	for rows.Next() {
		p, err := scanPhone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phone row: %w", err)
		}
		phones = append(phones, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phone rows: %w", err)
	}
	return phones, nil
}

// FindByID retrieves a listing by id. A missing listing is (nil, nil).
func (r *phoneRepository) FindByID(ctx context.Context, id string) (*model.Phone, error) {
	sql := `SELECT ` + phoneColumns + ` FROM phones WHERE id = $1`
	p, err := scanPhone(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find phone by ID: %w", err)
	}
	return p, nil
}

// Create inserts a listing. The caller assigns ID and AddedDate.
func (r *phoneRepository) Create(ctx context.Context, p *model.Phone) error {
	if _, err := r.db.Exec(ctx, insertPhoneSQL, phoneArgs(p)...); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create phone: %w", err)
	}
	return nil
}

// CreateMany inserts all listings in one transaction; either every row
// lands or none does.
func (r *phoneRepository) CreateMany(ctx context.Context, phones []model.Phone) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for i := range phones {
		if _, err := tx.Exec(ctx, insertPhoneSQL, phoneArgs(&phones[i])...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("phone %q: %w", phones[i].ID, ErrConflict)
			}
			return fmt.Errorf("failed to import phone %q: %w", phones[i].ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of an existing listing.
func (r *phoneRepository) Update(ctx context.Context, p *model.Phone) error {
	sql := `UPDATE phones
            SET name = $2, brand = $3, ram = $4, rom = $5, color = $6, battery = $7, camera = $8,
                front_camera = $9, market_price = $10, jumia_price = $11, ou_price = $12,
                description = $13, images = $14, condition = $15, os = $16, sim = $17,
                inspection_video = $18
            WHERE id = $1 RETURNING added_date`
	err := r.db.QueryRow(ctx, sql,
		p.ID, p.Name, p.Brand, p.RAM, p.ROM, p.Color, p.Battery, p.Camera,
		p.FrontCamera, p.MarketPrice, p.JumiaPrice, p.OUPrice,
		p.Description, p.Images, p.Condition, p.OS, p.SIM,
		p.InspectionVideo,
	).Scan(&p.AddedDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update phone: %w", err)
	}
	return nil
}

// Delete hard-deletes a listing
func (r *phoneRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM phones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete phone: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates the dashboard numbers in one query
func (r *phoneRepository) Stats(ctx context.Context) (*model.DashboardStats, error) {
	sql := `SELECT
                COUNT(*),
                COALESCE(SUM(ou_price), 0),
                COALESCE(SUM(market_price - ou_price), 0),
                COUNT(DISTINCT brand)
            FROM phones`
	stats := &model.DashboardStats{}
	err := r.db.QueryRow(ctx, sql).Scan(&stats.TotalPhones, &stats.InventoryValue, &stats.CustomerSavings, &stats.Brands)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate phone stats: %w", err)
	}
	return stats, nil
}
