package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"time"

	"ougadgets/internal/model"
	"ougadgets/internal/repository"
	"ougadgets/internal/storage"
	"ougadgets/internal/utils"
)

// ProfileService manages the signed-in admin's own account.
type ProfileService interface {
	GetProfile(ctx context.Context, adminID string) (*model.AdminUser, error)
	UpdateProfile(ctx context.Context, adminID string, req model.UpdateProfileRequest) (*model.AdminUser, error)
	ChangePassword(ctx context.Context, adminID string, req model.ChangePasswordRequest) error
	UploadAvatar(ctx context.Context, adminID string, file *multipart.FileHeader) (*model.AdminUser, error)
}

type profileService struct {
	adminRepo repository.AdminUserRepository
	auth      AuthService
	objects   storage.ObjectStorage
	now       func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(adminRepo repository.AdminUserRepository, auth AuthService, objects storage.ObjectStorage) ProfileService {
	return &profileService{
		adminRepo: adminRepo,
		auth:      auth,
		objects:   objects,
		now:       time.Now,
	}
}

func (s *profileService) GetProfile(ctx context.Context, adminID string) (*model.AdminUser, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, adminID string, req model.UpdateProfileRequest) (*model.AdminUser, error) {
	admin, err := s.GetProfile(ctx, adminID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != admin.Email {
		other, err := s.adminRepo.FindByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if other != nil && other.ID != admin.ID {
			return nil, ErrEmailInUse
		}
	}

	req.Apply(admin)
	if err := s.adminRepo.UpdateProfile(ctx, admin); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrEmailInUse
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return admin, nil
}

func (s *profileService) ChangePassword(ctx context.Context, adminID string, req model.ChangePasswordRequest) error {
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.NewPassword {
		return ErrPasswordMismatch
	}

	admin, err := s.GetProfile(ctx, adminID)
	if err != nil {
		return err
	}
	if _, err := s.auth.Login(ctx, admin.Username, req.CurrentPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return ErrIncorrectPassword
		}
		return err
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.adminRepo.UpdatePassword(ctx, adminID, hashedPassword); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *profileService) UploadAvatar(ctx context.Context, adminID string, file *multipart.FileHeader) (*model.AdminUser, error) {
	if file.Size > MaxFileSize {
		return nil, ErrFileSizeExceeded
	}
	if _, err := storage.AvatarExtension(file.Filename); err != nil {
		return nil, ErrInvalidFileFormat
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileSizeExceeded
	}

	avatar, err := storage.PrepareAvatar(file.Filename, data, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedExtension) || errors.Is(err, storage.ErrContentMismatch) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFileFormat, err)
		}
		return nil, err
	}

	if err := s.objects.Put(ctx, avatar.Key, bytes.NewReader(avatar.Data), int64(len(avatar.Data)), avatar.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	admin, err := s.adminRepo.UpdateAvatar(ctx, adminID, s.objects.URL(avatar.Key))
	if err != nil {
		if delErr := s.objects.Delete(ctx, avatar.Key); delErr != nil {
			slog.Warn("Failed to remove orphaned avatar", "key", avatar.Key, "error", delErr)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to record avatar: %w", err)
	}
	return admin, nil
}
