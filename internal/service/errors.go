package service

import "errors"

var (
	ErrPhoneNotFound      = errors.New("phone not found")
	ErrPhoneExists        = errors.New("a phone with this id already exists")
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrAdminExists        = errors.New("an admin with this username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrPasswordMismatch   = errors.New("new passwords do not match")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidFileFormat  = errors.New("invalid file format. only .jpg, .jpeg, .png, .gif, .webp images are allowed")
	ErrFileSizeExceeded   = errors.New("file size exceeds limit")
	ErrInvalidSettingKey  = errors.New("setting key must not be empty")
)

// MaxFileSize caps avatar uploads.
const MaxFileSize = 5 * 1024 * 1024 // 5MB
