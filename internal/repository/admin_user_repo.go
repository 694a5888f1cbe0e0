package repository

import (
	"context"
	"errors"
	"fmt"

	"ougadgets/internal/model"

	"github.com/jackc/pgx/v5"
)

// AdminUserRepository defines operations for back-office operators
type AdminUserRepository interface {
	Create(ctx context.Context, user *model.AdminUser) error
	FindByID(ctx context.Context, id string) (*model.AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	UpdateProfile(ctx context.Context, user *model.AdminUser) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) (*model.AdminUser, error)
}

type adminUserRepository struct {
	db DBTX
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db DBTX) AdminUserRepository {
	return &adminUserRepository{db: db}
}

const adminUserColumns = `id, username, email, password, name, role, avatar, phone, joined_date, last_active`

func scanAdminUser(row pgx.Row) (*model.AdminUser, error) {
	u := &model.AdminUser{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.Avatar, &u.Phone, &u.JoinedDate, &u.LastActive)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts an operator account
func (r *adminUserRepository) Create(ctx context.Context, u *model.AdminUser) error {
	sql := `INSERT INTO admin_users (username, email, password, name, role, avatar, phone)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, joined_date, last_active`
	err := r.db.QueryRow(ctx, sql, u.Username, u.Email, u.PasswordHash, u.Name, u.Role, u.Avatar, u.Phone).
		Scan(&u.ID, &u.JoinedDate, &u.LastActive)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	return nil
}

func (r *adminUserRepository) findOne(ctx context.Context, column, value string) (*model.AdminUser, error) {
	sql := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE ` + column + ` = $1`
	u, err := scanAdminUser(r.db.QueryRow(ctx, sql, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found is not an error here, the service decides
		}
		return nil, fmt.Errorf("failed to find admin user by %s: %w", column, err)
	}
	return u, nil
}

// FindByID retrieves an operator by id
func (r *adminUserRepository) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	return r.findOne(ctx, "id", id)
}

// FindByUsername retrieves an operator by login name
func (r *adminUserRepository) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	return r.findOne(ctx, "username", username)
}

// FindByEmail retrieves an operator by email
func (r *adminUserRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	return r.findOne(ctx, "email", email)
}

// UpdateProfile writes the editable profile fields and refreshes last_active.
func (r *adminUserRepository) UpdateProfile(ctx context.Context, u *model.AdminUser) error {
	sql := `UPDATE admin_users
            SET name = $2, email = $3, phone = $4, avatar = $5, last_active = NOW()
            WHERE id = $1 RETURNING last_active`
	err := r.db.QueryRow(ctx, sql, u.ID, u.Name, u.Email, u.Phone, u.Avatar).Scan(&u.LastActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to update admin profile: %w", err)
	}
	return nil
}

// UpdatePassword stores a new hash and refreshes last_active.
func (r *adminUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	sql := `UPDATE admin_users SET password = $2, last_active = NOW() WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAvatar records the avatar URL and returns the updated row.
func (r *adminUserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) (*model.AdminUser, error) {
	sql := `UPDATE admin_users SET avatar = $2, last_active = NOW()
            WHERE id = $1 RETURNING ` + adminUserColumns
	u, err := scanAdminUser(r.db.QueryRow(ctx, sql, id, avatarURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update admin avatar: %w", err)
	}
	return u, nil
}
