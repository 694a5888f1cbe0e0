package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"ougadgets/internal/model"
	"ougadgets/internal/session"
)

// DefaultCacheTTL bounds how long a cached GET is reused.
const DefaultCacheTTL = 30 * time.Second

const csrfHeader = "X-CSRF-Token"

// ErrPasswordMismatch is returned before any request is made when the
// confirmation does not match the new password.
var ErrPasswordMismatch = errors.New("new passwords do not match")

// FieldError mirrors a server-side validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+" "+f.Message)
		}
		return fmt.Sprintf("api error %d: %s", e.StatusCode, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client talks to the storefront API.
type Client struct {
	base  *url.URL
	http  *http.Client
	store *Store
	cache *queryCache
	csrf  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Jar is replaced.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCacheTTL sets how long GET responses are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cache = newQueryCache(ttl) }
}

// New creates a client for baseURL, restoring any session cookie kept in
// store.
func New(baseURL string, store *Store, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if store == nil {
		store = NewMemoryStore()
	}

	c := &Client{
		base:  base,
		http:  &http.Client{Timeout: 15 * time.Second},
		store: store,
		cache: newQueryCache(DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if token := store.session(); token != "" {
		jar.SetCookies(base, []*http.Cookie{{Name: session.CookieName, Value: token, Path: "/"}})
	}
	c.http.Jar = jar
	return c, nil
}

// Store exposes the client's persisted state.
func (c *Client) Store() *Store {
	return c.store
}

func (c *Client) resolve(path string) string {
	return c.base.String() + path
}

// syncSession copies the session cookie from the jar into the store.
func (c *Client) syncSession() {
	value := ""
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == session.CookieName {
			value = ck.Value
		}
	}
	c.store.setSession(value)
}

func (c *Client) ensureCSRF(ctx context.Context) error {
	if c.csrf != "" {
		return nil
	}
	var out struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/csrf", "", nil, &out); err != nil {
		return fmt.Errorf("failed to fetch csrf token: %w", err)
	}
	c.csrf = out.CSRFToken
	return nil
}

// do sends one request. Unsafe methods carry the CSRF token.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	raw, err := c.doRaw(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	unsafe := method != http.MethodGet && method != http.MethodHead
	if unsafe {
		if err := c.ensureCSRF(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if unsafe {
		req.Header.Set(csrfHeader, c.csrf)
		// The server rejects unsafe HTTPS requests without a same-origin Referer.
		req.Header.Set("Referer", c.base.String()+"/")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	c.syncSession()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, raw)
	}
	return raw, nil
}

func decodeError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Error) == 0 {
		if text := strings.TrimSpace(string(raw)); text != "" {
			apiErr.Message = text
		}
		return apiErr
	}
	var msg string
	if err := json.Unmarshal(body.Error, &msg); err == nil {
		apiErr.Message = msg
		return apiErr
	}
	var fields []FieldError
	if err := json.Unmarshal(body.Error, &fields); err == nil {
		apiErr.Message = "validation failed"
		apiErr.Fields = fields
	}
	return apiErr
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, "application/json", body, out)
}

// getCached serves GETs from the query cache when possible.
func (c *Client) getCached(ctx context.Context, path string, out any) error {
	if raw, ok := c.cache.get(path); ok {
		return json.Unmarshal(raw, out)
	}
	raw, err := c.doRaw(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode GET %s: %w", path, err)
	}
	c.cache.set(path, raw)
	return nil
}

func (c *Client) uploadFile(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf, out)
}

// Auth

// StatusResponse is the body of GET /api/auth/status.
type StatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	AdminID       string `json:"adminId,omitempty"`
}

func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/status", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bootstrap re-validates a persisted login. Any failure, including a
// network error, logs the client out locally.
func (c *Client) Bootstrap(ctx context.Context) bool {
	if !c.store.IsAuthenticated() {
		return false
	}
	status, err := c.Status(ctx)
	if err != nil || !status.Authenticated {
		c.localLogout()
		return false
	}
	return true
}

func (c *Client) Login(ctx context.Context, username, password string) (*model.AdminUser, error) {
	var out struct {
		Message string           `json:"message"`
		User    *model.AdminUser `json:"user"`
	}
	req := model.LoginRequest{Username: username, Password: password}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	c.store.SetAuth(out.User)
	c.cache.invalidate("/api/admin")
	return out.User, nil
}

// Logout ends the server session and always clears local auth state; the
// returned error only reports the server call.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", "", nil, nil)
	c.localLogout()
	return err
}

func (c *Client) localLogout() {
	c.store.Logout()
	c.cache.clear()
	c.csrf = ""
	c.http.Jar.SetCookies(c.base, []*http.Cookie{{Name: session.CookieName, Value: "", Path: "/", MaxAge: -1}})
}

// Catalog

// Phones lists the catalog. query may carry search, brand, minRam,
// maxPrice and sortBy.
func (c *Client) Phones(ctx context.Context, query url.Values) ([]model.Phone, error) {
	path := "/api/phones"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var phones []model.Phone
	if err := c.getCached(ctx, path, &phones); err != nil {
		return nil, err
	}
	return phones, nil
}

func (c *Client) Phone(ctx context.Context, id string) (*model.Phone, error) {
	var phone model.Phone
	if err := c.getCached(ctx, "/api/phones/"+url.PathEscape(id), &phone); err != nil {
		return nil, err
	}
	return &phone, nil
}

func (c *Client) CreatePhone(ctx context.Context, req model.CreatePhoneRequest) (*model.Phone, error) {
	var phone model.Phone
	if err := c.sendJSON(ctx, http.MethodPost, "/api/phones", req, &phone); err != nil {
		return nil, err
	}
	c.cache.invalidate("/api/phones", "/api/admin/stats")
	return &phone, nil
}

func (c *Client) UpdatePhone(ctx context.Context, id string, req model.UpdatePhoneRequest) (*model.Phone, error) {
	var phone model.Phone
	if err := c.sendJSON(ctx, http.MethodPut, "/api/phones/"+url.PathEscape(id), req, &phone); err != nil {
		return nil, err
	}
	c.cache.invalidate("/api/phones", "/api/admin/stats")
	return &phone, nil
}

func (c *Client) DeletePhone(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/phones/"+url.PathEscape(id), "", nil, nil); err != nil {
		return err
	}
	c.cache.invalidate("/api/phones", "/api/admin/stats")
	return nil
}

// Settings

func (c *Client) Settings(ctx context.Context) (map[string]string, error) {
	settings := map[string]string{}
	if err := c.getCached(ctx, "/api/settings", &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (c *Client) UpdateSettings(ctx context.Context, values map[string]string) (map[string]string, error) {
	settings := map[string]string{}
	if err := c.sendJSON(ctx, http.MethodPut, "/api/settings", values, &settings); err != nil {
		return nil, err
	}
	c.cache.invalidate("/api/settings")
	return settings, nil
}

// Admin

func (c *Client) Profile(ctx context.Context) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := c.getCached(ctx, "/api/admin/profile", &admin); err != nil {
		return nil, err
	}
	c.store.SetAdmin(&admin)
	return &admin, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := c.sendJSON(ctx, http.MethodPatch, "/api/admin/profile", req, &admin); err != nil {
		return nil, err
	}
	c.cache.invalidate("/api/admin/profile")
	c.store.SetAdmin(&admin)
	return &admin, nil
}

// ChangePassword refuses to send a request whose confirmation differs.
func (c *Client) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	if req.ConfirmPassword != req.NewPassword {
		return ErrPasswordMismatch
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/admin/change-password", req, nil); err != nil {
		return err
	}
	c.cache.invalidate("/api/admin/profile")
	return nil
}

func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := c.uploadFile(ctx, "/api/admin/avatar", "avatar", filename, r, &admin); err != nil {
		return nil, err
	}
	c.cache.invalidate("/api/admin/profile")
	c.store.SetAdmin(&admin)
	return &admin, nil
}

func (c *Client) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.getCached(ctx, "/api/admin/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ExportCSV streams the catalog export into w.
func (c *Client) ExportCSV(ctx context.Context, w io.Writer) error {
	raw, err := c.doRaw(ctx, http.MethodGet, "/api/admin/phones/export", "", nil)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// ImportCSV uploads a CSV file and returns how many phones were created.
func (c *Client) ImportCSV(ctx context.Context, filename string, r io.Reader) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.uploadFile(ctx, "/api/admin/phones/import", "file", filename, r, &out); err != nil {
		return 0, err
	}
	c.cache.invalidate("/api/phones", "/api/admin/stats")
	return out.Count, nil
}

// Health reports whether the server and its database are up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}
