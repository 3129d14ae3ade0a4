package models

import "time"

type Profile struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

type Settings struct {
	UserID               string
	DarkMode             bool
	NotificationsEnabled bool
	SaveHistory          bool
	UpdatedAt            time.Time
}

func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:               userID,
		DarkMode:             true,
		NotificationsEnabled: false,
		SaveHistory:          true,
		UpdatedAt:            time.Now(),
	}
}
