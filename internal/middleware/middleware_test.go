package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ougadgets/internal/model"
	"ougadgets/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdentity struct {
	identity *session.Identity
	err      error
}

func (s stubIdentity) Current(*http.Request) (*session.Identity, error) {
	return s.identity, s.err
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"adminId": AdminID(c), "role": c.GetString(AuthRoleKey)})
	})
	r.GET("/admin", handlers...)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionAuthMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		source   stubIdentity
		wantCode int
		wantBody string
	}{
		{"anonymous", stubIdentity{}, http.StatusUnauthorized, `{"error":"Authentication required"}`},
		{"store failure", stubIdentity{err: errors.New("db down")}, http.StatusInternalServerError, `{"error":"Failed to load session"}`},
		{"signed in", stubIdentity{identity: &session.Identity{AdminID: "a1", Role: "staff"}}, http.StatusOK, `{"adminId":"a1","role":"staff"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newRouter(SessionAuthMiddleware(tt.source)), httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		mw       gin.HandlerFunc
		wantCode int
	}{
		{"staff allowed in back office", "staff", BackOfficeMiddleware(), http.StatusOK},
		{"manager allowed in back office", "manager", BackOfficeMiddleware(), http.StatusOK},
		{"unknown role rejected", "owner", BackOfficeMiddleware(), http.StatusForbidden},
		{"staff not admin", "staff", RoleMiddleware(model.RoleAdmin), http.StatusForbidden},
		{"admin is admin", "admin", RoleMiddleware(model.RoleAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := SessionAuthMiddleware(stubIdentity{identity: &session.Identity{AdminID: "a1", Role: tt.role}})
			w := serve(newRouter(auth, tt.mw), httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRoleMiddleware_WithoutSession(t *testing.T) {
	w := serve(newRouter(BackOfficeMiddleware()), httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("http://localhost:5173"))
	r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := serve(r, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/admin", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestLogger(t *testing.T) {
	w := serve(newRouter(RequestLogger()), httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func newCSRFServer(secure bool) http.Handler {
	r := gin.New()
	r.GET("/api/csrf", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"csrfToken": csrf.Token(c.Request)})
	})
	r.POST("/api/phones", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": "ok"})
	})
	return CSRFProtect(bytes.Repeat([]byte("k"), 32), secure, []string{"localhost:8080"})(r)
}

func TestCSRFProtect_PlaintextDev(t *testing.T) {
	h := newCSRFServer(false)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/csrf", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out.CSRFToken)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// No Referer: plain HTTP requests only need the token.
	req := httptest.NewRequest(http.MethodPost, "/api/phones", nil)
	req.Header.Set(CSRFHeader, out.CSRFToken)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = serve(h, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/phones", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = serve(h, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Invalid CSRF token"}`, w.Body.String())
}

func TestCSRFProtect_SecureRequiresReferer(t *testing.T) {
	h := newCSRFServer(true)

	w := serve(h, httptest.NewRequest(http.MethodGet, "/api/csrf", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	req := httptest.NewRequest(http.MethodPost, "/api/phones", nil)
	req.Header.Set(CSRFHeader, out.CSRFToken)
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	w = serve(h, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
