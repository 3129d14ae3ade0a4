package models

import (
	"time"

	"github.com/google/uuid"
)

const titleMaxRunes = 30

type Conversation struct {
	ID        string
	UserID    string // empty for anonymous (local-only) conversations
	Title     string
	Messages  []Message
	CreatedAt time.Time
}

// NewConversation builds a local conversation with a generated identifier.
// Persisted conversations get their identifier from the store instead.
func NewConversation(userID, title string) *Conversation {
	return &Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
}

// DeriveTitle derives a conversation title from the first user message.
// Computed once at creation and never recomputed.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxRunes {
		return content
	}
	return string(runes[:titleMaxRunes]) + "..."
}
