// Package session keeps admin sessions in PostgreSQL behind the
// gorilla/sessions Store interface. The browser only holds a signed token
// naming the session row.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ougadgets/internal/model"
	"ougadgets/internal/repository"
	"ougadgets/internal/utils"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// CookieName is the name of the admin session cookie.
const CookieName = "ou_admin_session"

// Keys stored in a session.
const (
	KeyAdminID       = "adminId"
	KeyAdminUsername = "adminUsername"
	KeyAdminRole     = "adminRole"
)

// Identity is what an authenticated session says about its admin.
type Identity struct {
	AdminID  string
	Username string
	Role     string
}

// PGStore implements sessions.Store on top of the sessions table.
type PGStore struct {
	repo    repository.SessionRepository
	tokens  *utils.JWTUtil
	Options *sessions.Options
}

var _ sessions.Store = (*PGStore)(nil)

// NewPGStore creates a store whose cookies live as long as the token TTL.
func NewPGStore(repo repository.SessionRepository, tokens *utils.JWTUtil, secure bool) *PGStore {
	return &PGStore{
		repo:   repo,
		tokens: tokens,
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(tokens.TTL().Seconds()),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the session cached for this request, loading it on first use.
func (s *PGStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. A missing, forged or
// expired cookie yields a fresh empty session.
func (s *PGStore) New(r *http.Request, name string) (*sessions.Session, error) {
	sess := sessions.NewSession(s, name)
	opts := *s.Options
	sess.Options = &opts
	sess.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}
	id, err := s.tokens.SessionID(cookie.Value)
	if err != nil {
		slog.Debug("Ignoring invalid session cookie", "error", err)
		return sess, nil
	}
	rec, err := s.repo.Find(r.Context(), id)
	if err != nil {
		return sess, err
	}
	if rec == nil {
		return sess, nil
	}

	sess.ID = rec.ID
	for k, v := range rec.Data {
		sess.Values[k] = v
	}
	sess.IsNew = false
	return sess, nil
}

// Save persists the session row and writes the cookie. A negative MaxAge
// deletes the row and expires the cookie.
func (s *PGStore) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	if sess.Options.MaxAge < 0 {
		if sess.ID != "" {
			if err := s.repo.Delete(r.Context(), sess.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}

	data := make(map[string]string, len(sess.Values))
	for k, v := range sess.Values {
		key, ok := k.(string)
		if !ok {
			continue
		}
		data[key] = fmt.Sprint(v)
	}

	rec := &repository.SessionRecord{
		ID:        sess.ID,
		Data:      data,
		ExpiresAt: time.Now().Add(time.Duration(sess.Options.MaxAge) * time.Second),
	}
	if err := s.repo.Save(r.Context(), rec); err != nil {
		return err
	}

	token, err := s.tokens.GenerateToken(sess.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(sess.Name(), token, sess.Options))
	return nil
}

// Login starts a new session for admin. Any session the request already
// carried is discarded so the id changes on every login.
func (s *PGStore) Login(w http.ResponseWriter, r *http.Request, admin *model.AdminUser) error {
	sess, err := s.Get(r, CookieName)
	if err != nil {
		return err
	}
	if sess.ID != "" {
		if err := s.repo.Delete(r.Context(), sess.ID); err != nil {
			return err
		}
		sess.ID = ""
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Values[KeyAdminID] = admin.ID
	sess.Values[KeyAdminUsername] = admin.Username
	sess.Values[KeyAdminRole] = admin.Role
	return sess.Save(r, w)
}

// Logout destroys the request's session and expires the cookie.
func (s *PGStore) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, err := s.Get(r, CookieName)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Current returns the identity bound to the request, or nil when the
// request is anonymous.
func (s *PGStore) Current(r *http.Request) (*Identity, error) {
	sess, err := s.Get(r, CookieName)
	if err != nil {
		return nil, err
	}
	id, _ := sess.Values[KeyAdminID].(string)
	if id == "" {
		return nil, nil
	}
	username, _ := sess.Values[KeyAdminUsername].(string)
	role, _ := sess.Values[KeyAdminRole].(string)
	return &Identity{AdminID: id, Username: username, Role: role}, nil
}

// Reap deletes expired sessions every interval until ctx is done.
func (s *PGStore) Reap(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.repo.DeleteExpired(ctx)
			if err != nil {
				slog.Error("Failed to reap expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("Reaped expired sessions", "count", n)
			}
		}
	}
}
