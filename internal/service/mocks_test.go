package service

import (
	"context"
	"io"
	"sync"

	"ougadgets/internal/events"
	"ougadgets/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockPhoneRepo struct{ mock.Mock }

func (m *mockPhoneRepo) FindAll(ctx context.Context) ([]model.Phone, error) {
	args := m.Called(ctx)
	phones, _ := args.Get(0).([]model.Phone)
	return phones, args.Error(1)
}

func (m *mockPhoneRepo) FindByID(ctx context.Context, id string) (*model.Phone, error) {
	args := m.Called(ctx, id)
	phone, _ := args.Get(0).(*model.Phone)
	return phone, args.Error(1)
}

func (m *mockPhoneRepo) Create(ctx context.Context, phone *model.Phone) error {
	return m.Called(ctx, phone).Error(0)
}

func (m *mockPhoneRepo) CreateMany(ctx context.Context, phones []model.Phone) error {
	return m.Called(ctx, phones).Error(0)
}

func (m *mockPhoneRepo) Update(ctx context.Context, phone *model.Phone) error {
	return m.Called(ctx, phone).Error(0)
}

func (m *mockPhoneRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPhoneRepo) Stats(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*model.DashboardStats)
	return stats, args.Error(1)
}

type mockAdminRepo struct{ mock.Mock }

func (m *mockAdminRepo) Create(ctx context.Context, user *model.AdminUser) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.AdminUser)
	return user, args.Error(1)
}

func (m *mockAdminRepo) FindByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*model.AdminUser)
	return user, args.Error(1)
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.AdminUser)
	return user, args.Error(1)
}

func (m *mockAdminRepo) UpdateProfile(ctx context.Context, user *model.AdminUser) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockAdminRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockAdminRepo) UpdateAvatar(ctx context.Context, id, avatarURL string) (*model.AdminUser, error) {
	args := m.Called(ctx, id, avatarURL)
	user, _ := args.Get(0).(*model.AdminUser)
	return user, args.Error(1)
}

type mockSettingRepo struct{ mock.Mock }

func (m *mockSettingRepo) FindAll(ctx context.Context) ([]model.Setting, error) {
	args := m.Called(ctx)
	settings, _ := args.Get(0).([]model.Setting)
	return settings, args.Error(1)
}

func (m *mockSettingRepo) Upsert(ctx context.Context, key, value string) (*model.Setting, error) {
	args := m.Called(ctx, key, value)
	setting, _ := args.Get(0).(*model.Setting)
	return setting, args.Error(1)
}

// memoryObjects is an in-memory storage.ObjectStorage.
type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: map[string][]byte{}}
}

func (m *memoryObjects) EnsureBucket(context.Context) error { return nil }

func (m *memoryObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryObjects) URL(key string) string { return "/uploads/" + key }

func (m *memoryObjects) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}
