package models

import (
	"fmt"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	ID             string
	ConversationID string
	Role           string
	Content        string
	Timestamp      time.Time
	ImageURL       string // attached data URL or generated image URL, empty otherwise
}

// Turn is one history entry as serialized for the completion endpoint.
type Turn struct {
	Role    string
	Content string
}

func NewMessage(conversationID, role, content string) Message {
	now := time.Now()
	return Message{
		ID:             generateMessageID(now),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Timestamp:      now,
	}
}

// Message IDs are nanosecond-stamped so they sort in creation order.
func generateMessageID(t time.Time) string {
	return fmt.Sprintf("msg-%d", t.UnixNano())
}
