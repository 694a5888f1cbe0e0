// Package client is a Go client for the storefront API. It keeps a small
// persisted state (auth flag, cached profile, session cookie and compare
// list) and a response cache that is invalidated after mutations.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"ougadgets/internal/catalog"
	"ougadgets/internal/model"
)

// State is what survives between runs.
type State struct {
	Authenticated bool                `json:"authenticated"`
	Admin         *model.AdminUser    `json:"admin,omitempty"`
	Session       string              `json:"session,omitempty"`
	Compare       catalog.CompareList `json:"compare"`
}

// Store holds State and writes it to disk after every change.
type Store struct {
	mu    sync.Mutex
	path  string
	state State
}

// NewMemoryStore returns a Store that never touches disk.
func NewMemoryStore() *Store {
	return &Store{}
}

// LoadStore reads the state file at path. A missing file yields an empty
// state; an unreadable one is logged and replaced.
func LoadStore(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		slog.Warn("Discarding corrupt client state", "path", path, "error", err)
		s.state = State{}
	}
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Compare = catalog.CompareList{}
	for _, p := range s.state.Compare.Items() {
		out.Compare.Add(p)
	}
	return out
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Authenticated
}

// SetAuth records a successful login.
func (s *Store) SetAuth(admin *model.AdminUser) {
	s.update(func(st *State) {
		st.Authenticated = true
		st.Admin = admin
	})
}

// SetAdmin refreshes the cached profile without touching the auth flag.
func (s *Store) SetAdmin(admin *model.AdminUser) {
	s.update(func(st *State) { st.Admin = admin })
}

// Logout clears every piece of auth state. The compare list is kept.
func (s *Store) Logout() {
	s.update(func(st *State) {
		st.Authenticated = false
		st.Admin = nil
		st.Session = ""
	})
}

func (s *Store) session() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Session
}

func (s *Store) setSession(value string) {
	s.mu.Lock()
	changed := s.state.Session != value
	s.mu.Unlock()
	if changed {
		s.update(func(st *State) { st.Session = value })
	}
}

// AddToCompare adds a phone snapshot. It reports false when the phone is
// already listed or the list is full.
func (s *Store) AddToCompare(phone model.Phone) bool {
	var added bool
	s.update(func(st *State) { added = st.Compare.Add(phone) })
	return added
}

func (s *Store) RemoveFromCompare(id string) bool {
	var removed bool
	s.update(func(st *State) { removed = st.Compare.Remove(id) })
	return removed
}

func (s *Store) ClearCompare() {
	s.update(func(st *State) { st.Compare.Clear() })
}

func (s *Store) CompareItems() []model.Phone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Compare.Items()
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	if err := s.persistLocked(); err != nil {
		slog.Warn("Failed to persist client state", "path", s.path, "error", err)
	}
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
