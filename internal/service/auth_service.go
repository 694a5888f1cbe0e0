package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"ougadgets/internal/model"
	"ougadgets/internal/repository"
	"ougadgets/internal/utils"

	"github.com/go-playground/validator/v10"
)

// AuthService provides authentication related services
type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.AdminUser, error)
	CreateAdmin(ctx context.Context, req model.CreateAdminUserRequest) (*model.AdminUser, error)
}

type authService struct {
	adminRepo repository.AdminUserRepository
	validate  *validator.Validate
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo repository.AdminUserRepository) AuthService {
	return &authService{
		adminRepo: adminRepo,
		validate:  validator.New(),
	}
}

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	hash, err := utils.HashPassword("ougadgets-missing-admin")
	if err != nil {
		panic(err)
	}
	return hash
})

// Login checks a username/password pair. Unknown users and wrong passwords
// both yield ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (*model.AdminUser, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error finding admin by username: %w", err)
	}
	if admin == nil {
		utils.CheckPasswordHash(password, dummyHash())
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// CreateAdmin seeds an operator account.
func (s *authService) CreateAdmin(ctx context.Context, req model.CreateAdminUserRequest) (*model.AdminUser, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.AdminUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Role:         req.Role,
		Phone:        req.Phone,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("failed to create admin in repository: %w", err)
	}

	slog.Info("Admin user created", "username", admin.Username, "role", admin.Role)
	return admin, nil
}
