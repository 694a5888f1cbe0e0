package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ougadgets/internal/model"
	"ougadgets/internal/repository"
	"ougadgets/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func adminWithPassword(t *testing.T, password string) *model.AdminUser {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return &model.AdminUser{ID: "a1", Username: "oanduadmin", Email: "admin@ougadgets.com", Name: "Admin", Role: "admin", PasswordHash: hash}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	admin := adminWithPassword(t, "correct-horse")

	repo := new(mockAdminRepo)
	repo.On("FindByUsername", ctx, "oanduadmin").Return(admin, nil)
	repo.On("FindByUsername", ctx, "ghost").Return(nil, nil)
	repo.On("FindByUsername", ctx, "broken").Return(nil, errors.New("db down"))
	svc := NewAuthService(repo)

	got, err := svc.Login(ctx, "oanduadmin", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	_, err = svc.Login(ctx, "oanduadmin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown users still pay for a full-cost bcrypt compare.
	cost, err := bcrypt.Cost([]byte(dummyHash()))
	require.NoError(t, err)
	assert.Equal(t, utils.PasswordCost, cost)

	_, err = svc.Login(ctx, "broken", "whatever")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	req := model.CreateAdminUserRequest{
		Username: " oanduadmin ",
		Email:    "admin@ougadgets.com",
		Password: "password123",
		Name:     "O&U Admin",
		Role:     "admin",
	}

	repo := new(mockAdminRepo)
	repo.On("Create", ctx, mock.MatchedBy(func(u *model.AdminUser) bool {
		return u.Username == "oanduadmin" && utils.CheckPasswordHash("password123", u.PasswordHash)
	})).Return(nil).Once()
	svc := NewAuthService(repo)

	admin, err := svc.CreateAdmin(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)
	assert.NotEqual(t, "password123", admin.PasswordHash)
	repo.AssertExpectations(t)
}

func TestCreateAdmin_Validation(t *testing.T) {
	repo := new(mockAdminRepo)
	svc := NewAuthService(repo)

	_, err := svc.CreateAdmin(context.Background(), model.CreateAdminUserRequest{
		Username: "x", Email: "not-an-email", Password: "short", Name: "X", Role: "owner",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]bool{}
	for _, fe := range verrs {
		fields[fe.Field()] = true
	}
	assert.True(t, fields["Email"])
	assert.True(t, fields["Password"])
	assert.True(t, fields["Role"])
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateAdmin_Conflict(t *testing.T) {
	ctx := context.Background()
	repo := new(mockAdminRepo)
	repo.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)
	svc := NewAuthService(repo)

	_, err := svc.CreateAdmin(ctx, model.CreateAdminUserRequest{
		Username: "oanduadmin", Email: "admin@ougadgets.com", Password: "password123", Name: "Admin", Role: "staff",
	})
	assert.ErrorIs(t, err, ErrAdminExists)
}

func TestCreateAdmin_PasswordTooLong(t *testing.T) {
	repo := new(mockAdminRepo)
	svc := NewAuthService(repo)

	_, err := svc.CreateAdmin(context.Background(), model.CreateAdminUserRequest{
		Username: "oanduadmin", Email: "admin@ougadgets.com", Password: strings.Repeat("x", 80), Name: "Admin", Role: "staff",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Password", verrs[0].Field())
	assert.Equal(t, "max", verrs[0].Tag())

	_, err = svc.CreateAdmin(context.Background(), model.CreateAdminUserRequest{
		Username: "oanduadmin", Email: "admin@ougadgets.com", Password: strings.Repeat("é", 40), Name: "Admin", Role: "staff",
	})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
