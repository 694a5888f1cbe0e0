package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ougadgets/internal/events"
	"ougadgets/internal/repository"
)

// SettingService reads and writes the key/value settings table.
type SettingService interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	UpdateSettings(ctx context.Context, values map[string]string) (map[string]string, error)
}

type settingService struct {
	repo      repository.SettingRepository
	publisher events.Publisher
}

// NewSettingService creates a new SettingService
func NewSettingService(repo repository.SettingRepository, publisher events.Publisher) SettingService {
	return &settingService{repo: repo, publisher: publisher}
}

// GetSettings returns the stored keys only; defaults are not merged in.
func (s *settingService) GetSettings(ctx context.Context) (map[string]string, error) {
	settings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	out := make(map[string]string, len(settings))
	for _, st := range settings {
		out[st.Key] = st.Value
	}
	return out, nil
}

// UpdateSettings upserts every key in values and returns the full map.
// Keys are written one at a time in sorted order.
func (s *settingService) UpdateSettings(ctx context.Context, values map[string]string) (map[string]string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.TrimSpace(k) == "" {
			return nil, ErrInvalidSettingKey
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := s.repo.Upsert(ctx, k, values[k]); err != nil {
			return nil, fmt.Errorf("failed to save setting %q: %w", k, err)
		}
	}
	if len(keys) > 0 {
		publish(ctx, s.publisher, events.Event{Type: events.SettingsUpdated, Count: len(keys)})
	}
	return s.GetSettings(ctx)
}
