package handler

import (
	"errors"
	"net/http"
	"testing"

	"ougadgets/internal/model"
	"ougadgets/internal/service"
	"ougadgets/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAuthRouter(svc *mockAuthService, sessions *fakeSessions) *gin.Engine {
	r := gin.New()
	NewAuthHandler(svc, sessions).RegisterAuthRoutes(r.Group("/api"))
	return r
}

func TestLogin_MissingFields(t *testing.T) {
	svc := new(mockAuthService)
	r := newAuthRouter(svc, &fakeSessions{})

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":[
		{"field":"username","message":"is required"},
		{"field":"password","message":"is required"}
	]}`, w.Body.String())
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, "oanduadmin", "nope").Return(nil, service.ErrInvalidCredentials)
	sessions := &fakeSessions{}
	r := newAuthRouter(svc, sessions)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"oanduadmin","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
	assert.Nil(t, sessions.identity)
	assert.Empty(t, w.Result().Cookies())
}

func TestLogin_Success(t *testing.T) {
	admin := &model.AdminUser{ID: "a1", Username: "oanduadmin", Email: "admin@ougadgets.com", Role: "admin", PasswordHash: "$2a$10$secret"}
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, "oanduadmin", "password123").Return(admin, nil)
	sessions := &fakeSessions{}
	r := newAuthRouter(svc, sessions)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"oanduadmin","password":"password123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Login successful"`)
	assert.Contains(t, w.Body.String(), `"username":"oanduadmin"`)
	assert.NotContains(t, w.Body.String(), "secret")
	assert.NotContains(t, w.Body.String(), "password")
	assert.Equal(t, &session.Identity{AdminID: "a1", Username: "oanduadmin", Role: "admin"}, sessions.identity)
	assert.Equal(t, session.CookieName, w.Result().Cookies()[0].Name)
}

func TestLogin_SessionFailure(t *testing.T) {
	svc := new(mockAuthService)
	svc.On("Login", mock.Anything, "oanduadmin", "password123").Return(&model.AdminUser{ID: "a1"}, nil)
	r := newAuthRouter(svc, &fakeSessions{err: errors.New("db down")})

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"username":"oanduadmin","password":"password123"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to login"}`, w.Body.String())
}

func TestStatusAndLogout(t *testing.T) {
	sessions := signedIn("admin")
	r := newAuthRouter(new(mockAuthService), sessions)

	w := doJSON(t, r, http.MethodGet, "/api/auth/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":true,"adminId":"a1"}`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, sessions.identity)

	w = doJSON(t, r, http.MethodGet, "/api/auth/status", "")
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestStatus_StoreError(t *testing.T) {
	r := newAuthRouter(new(mockAuthService), &fakeSessions{err: errors.New("db down")})

	w := doJSON(t, r, http.MethodGet, "/api/auth/status", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
