package store

import (
	"context"
	"errors"

	"simonai/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence layer: conversations and messages keyed by the
// owning session, plus profiles and per-user settings. Both BadgerStore and
// SQLiteStore implement this interface.
type Store interface {
	// CreateConversation creates a conversation record and returns it with
	// its generated identifier.
	CreateConversation(ctx context.Context, userID, title string) (*models.Conversation, error)

	// ListConversations returns the user's conversations, newest first,
	// each with its messages in creation order.
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)

	// ConversationIDs returns the identifiers of the user's conversations.
	ConversationIDs(ctx context.Context, userID string) ([]string, error)

	// InsertMessages appends messages to a conversation.
	InsertMessages(ctx context.Context, conversationID string, msgs []models.Message) error

	// DeleteMessages removes every message of a conversation.
	DeleteMessages(ctx context.Context, conversationID string) error

	// DeleteConversation removes a conversation record.
	DeleteConversation(ctx context.Context, id string) error

	// DeleteUserConversations removes every conversation record owned by
	// the user. Messages are expected to have been deleted first.
	DeleteUserConversations(ctx context.Context, userID string) error

	// CreateProfile stores a new account profile.
	CreateProfile(ctx context.Context, profile *models.Profile) error

	// GetProfileByEmail looks a profile up by email, ErrNotFound if absent.
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)

	// GetSettings returns the user's settings, ErrNotFound if absent.
	GetSettings(ctx context.Context, userID string) (*models.Settings, error)

	// SaveSettings inserts or replaces the user's settings.
	SaveSettings(ctx context.Context, settings *models.Settings) error

	Close() error
}
