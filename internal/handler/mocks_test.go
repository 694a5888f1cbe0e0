package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ougadgets/internal/catalog"
	"ougadgets/internal/middleware"
	"ougadgets/internal/model"
	"ougadgets/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*model.AdminUser, error) {
	args := m.Called(ctx, username, password)
	admin, _ := args.Get(0).(*model.AdminUser)
	return admin, args.Error(1)
}

func (m *mockAuthService) CreateAdmin(ctx context.Context, req model.CreateAdminUserRequest) (*model.AdminUser, error) {
	args := m.Called(ctx, req)
	admin, _ := args.Get(0).(*model.AdminUser)
	return admin, args.Error(1)
}

type mockProfileService struct{ mock.Mock }

func (m *mockProfileService) GetProfile(ctx context.Context, adminID string) (*model.AdminUser, error) {
	args := m.Called(ctx, adminID)
	admin, _ := args.Get(0).(*model.AdminUser)
	return admin, args.Error(1)
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, adminID string, req model.UpdateProfileRequest) (*model.AdminUser, error) {
	args := m.Called(ctx, adminID, req)
	admin, _ := args.Get(0).(*model.AdminUser)
	return admin, args.Error(1)
}

func (m *mockProfileService) ChangePassword(ctx context.Context, adminID string, req model.ChangePasswordRequest) error {
	return m.Called(ctx, adminID, req).Error(0)
}

func (m *mockProfileService) UploadAvatar(ctx context.Context, adminID string, file *multipart.FileHeader) (*model.AdminUser, error) {
	args := m.Called(ctx, adminID, file)
	admin, _ := args.Get(0).(*model.AdminUser)
	return admin, args.Error(1)
}

type mockPhoneService struct{ mock.Mock }

func (m *mockPhoneService) ListPhones(ctx context.Context, filter *catalog.FilterState) ([]model.Phone, error) {
	args := m.Called(ctx, filter)
	phones, _ := args.Get(0).([]model.Phone)
	return phones, args.Error(1)
}

func (m *mockPhoneService) GetPhone(ctx context.Context, id string) (*model.Phone, error) {
	args := m.Called(ctx, id)
	phone, _ := args.Get(0).(*model.Phone)
	return phone, args.Error(1)
}

func (m *mockPhoneService) CreatePhone(ctx context.Context, req model.CreatePhoneRequest) (*model.Phone, error) {
	args := m.Called(ctx, req)
	phone, _ := args.Get(0).(*model.Phone)
	return phone, args.Error(1)
}

func (m *mockPhoneService) UpdatePhone(ctx context.Context, id string, req model.UpdatePhoneRequest) (*model.Phone, error) {
	args := m.Called(ctx, id, req)
	phone, _ := args.Get(0).(*model.Phone)
	return phone, args.Error(1)
}

func (m *mockPhoneService) DeletePhone(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPhoneService) ImportCSV(ctx context.Context, r io.Reader) ([]model.Phone, error) {
	args := m.Called(ctx, r)
	phones, _ := args.Get(0).([]model.Phone)
	return phones, args.Error(1)
}

func (m *mockPhoneService) ExportCSV(ctx context.Context) (*bytes.Buffer, error) {
	args := m.Called(ctx)
	buf, _ := args.Get(0).(*bytes.Buffer)
	return buf, args.Error(1)
}

func (m *mockPhoneService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*model.DashboardStats)
	return stats, args.Error(1)
}

type mockSettingService struct{ mock.Mock }

func (m *mockSettingService) GetSettings(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	settings, _ := args.Get(0).(map[string]string)
	return settings, args.Error(1)
}

func (m *mockSettingService) UpdateSettings(ctx context.Context, values map[string]string) (map[string]string, error) {
	args := m.Called(ctx, values)
	settings, _ := args.Get(0).(map[string]string)
	return settings, args.Error(1)
}

// fakeSessions keeps at most one signed-in admin.
type fakeSessions struct {
	identity *session.Identity
	err      error
}

func (f *fakeSessions) Login(w http.ResponseWriter, _ *http.Request, admin *model.AdminUser) error {
	if f.err != nil {
		return f.err
	}
	f.identity = &session.Identity{AdminID: admin.ID, Username: admin.Username, Role: admin.Role}
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "token", Path: "/", HttpOnly: true})
	return nil
}

func (f *fakeSessions) Logout(w http.ResponseWriter, _ *http.Request) error {
	f.identity = nil
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1})
	return nil
}

func (f *fakeSessions) Current(*http.Request) (*session.Identity, error) {
	return f.identity, f.err
}

func signedIn(role string) *fakeSessions {
	return &fakeSessions{identity: &session.Identity{AdminID: "a1", Username: "oanduadmin", Role: role}}
}

func authChain(s *fakeSessions) []gin.HandlerFunc {
	return []gin.HandlerFunc{middleware.SessionAuthMiddleware(s), middleware.BackOfficeMiddleware()}
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doMultipart(t *testing.T, r http.Handler, path, field, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
