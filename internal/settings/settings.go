package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"simonai/internal/models"
	"simonai/internal/store"
)

// Service loads and saves per-user preferences. A user who has never saved
// anything gets the defaults.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Load returns the user's settings, falling back to defaults when none are
// stored yet. The defaults are not persisted until the user changes
// something.
func (s *Service) Load(ctx context.Context, userID string) (*models.Settings, error) {
	settings, err := s.store.GetSettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultSettings(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Save stamps and persists the settings.
func (s *Service) Save(ctx context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now()
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
