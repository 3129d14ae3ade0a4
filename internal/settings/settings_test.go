package settings

import (
	"context"
	"testing"

	"simonai/internal/models"
	"simonai/internal/store"
)

type settingsStore struct {
	store.Store
	saved map[string]*models.Settings
}

func newSettingsStore() *settingsStore {
	return &settingsStore{saved: make(map[string]*models.Settings)}
}

func (s *settingsStore) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	if settings, ok := s.saved[userID]; ok {
		out := *settings
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func (s *settingsStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	stored := *settings
	s.saved[settings.UserID] = &stored
	return nil
}

func TestLoadReturnsDefaultsForNewUser(t *testing.T) {
	backing := newSettingsStore()
	svc := NewService(backing)

	settings, err := svc.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !settings.DarkMode || settings.NotificationsEnabled || !settings.SaveHistory {
		t.Errorf("settings = %+v, want defaults", settings)
	}
	if len(backing.saved) != 0 {
		t.Error("Load persisted the defaults")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	svc := NewService(newSettingsStore())
	ctx := context.Background()

	settings, err := svc.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	settings.DarkMode = false
	settings.NotificationsEnabled = true
	if err := svc.Save(ctx, settings); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if settings.UpdatedAt.IsZero() {
		t.Error("Save did not stamp UpdatedAt")
	}

	loaded, err := svc.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.DarkMode || !loaded.NotificationsEnabled || !loaded.SaveHistory {
		t.Errorf("settings = %+v", loaded)
	}
}
