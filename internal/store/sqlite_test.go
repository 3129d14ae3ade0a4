package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"simonai/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteConversationLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateConversation(ctx, "user-1", "Ciao Simon")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if first.ID == "" {
		t.Fatal("conversation has no id")
	}

	// Second conversation is newer and must list first.
	second, err := s.CreateConversation(ctx, "user-1", "Un gatto")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if _, err := s.CreateConversation(ctx, "user-2", "Altrui"); err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	user := models.NewMessage(first.ID, models.RoleUser, "ciao")
	assistant := models.NewMessage(first.ID, models.RoleAssistant, "ciao!")
	if err := s.InsertMessages(ctx, first.ID, []models.Message{user, assistant}); err != nil {
		t.Fatalf("InsertMessages: %v", err)
	}

	convs, err := s.ListConversations(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("listed %d conversations, want 2", len(convs))
	}
	if convs[0].ID != second.ID {
		t.Errorf("newest conversation is %s, want %s", convs[0].ID, second.ID)
	}
	if len(convs[1].Messages) != 2 {
		t.Fatalf("conversation has %d messages, want 2", len(convs[1].Messages))
	}
	if convs[1].Messages[0].Content != "ciao" || convs[1].Messages[1].Content != "ciao!" {
		t.Errorf("messages out of order: %q then %q",
			convs[1].Messages[0].Content, convs[1].Messages[1].Content)
	}

	ids, err := s.ConversationIDs(ctx, "user-1")
	if err != nil {
		t.Fatalf("ConversationIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}

	if err := s.DeleteMessages(ctx, first.ID); err != nil {
		t.Fatalf("DeleteMessages: %v", err)
	}
	if err := s.DeleteConversation(ctx, first.ID); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	convs, err = s.ListConversations(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("listed %d conversations after delete, want 1", len(convs))
	}

	if err := s.DeleteUserConversations(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUserConversations: %v", err)
	}
	convs, err = s.ListConversations(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 0 {
		t.Fatalf("listed %d conversations after delete all, want 0", len(convs))
	}

	// Other user's data is untouched.
	others, err := s.ListConversations(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(others) != 1 {
		t.Fatalf("other user has %d conversations, want 1", len(others))
	}
}

func TestSQLiteMessageOrderingByTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	conv, err := s.CreateConversation(ctx, "user-1", "ordering")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	base := time.Now()
	msgs := []models.Message{
		{ID: "msg-3", Role: models.RoleUser, Content: "third", Timestamp: base.Add(2 * time.Second)},
		{ID: "msg-1", Role: models.RoleUser, Content: "first", Timestamp: base},
		{ID: "msg-2", Role: models.RoleAssistant, Content: "second", Timestamp: base.Add(time.Second)},
	}
	if err := s.InsertMessages(ctx, conv.ID, msgs); err != nil {
		t.Fatalf("InsertMessages: %v", err)
	}

	convs, err := s.ListConversations(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	got := convs[0].Messages
	want := []string{"first", "second", "third"}
	for i, content := range want {
		if got[i].Content != content {
			t.Errorf("message %d = %q, want %q", i, got[i].Content, content)
		}
	}
}

func TestSQLiteProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetProfileByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	profile := &models.Profile{
		ID:           "user-1",
		Email:        "simone@example.com",
		Name:         "Simone",
		PasswordHash: "abc123",
		CreatedAt:    time.Now(),
	}
	if err := s.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	got, err := s.GetProfileByEmail(ctx, "simone@example.com")
	if err != nil {
		t.Fatalf("GetProfileByEmail: %v", err)
	}
	if got.ID != "user-1" || got.Name != "Simone" || got.PasswordHash != "abc123" {
		t.Errorf("profile = %+v", got)
	}

	// Email lookup is case-insensitive.
	if _, err := s.GetProfileByEmail(ctx, "SIMONE@example.com"); err != nil {
		t.Errorf("uppercase lookup failed: %v", err)
	}

	// Duplicate email rejected.
	if err := s.CreateProfile(ctx, &models.Profile{
		ID: "user-2", Email: "simone@example.com", Name: "Other",
		PasswordHash: "x", CreatedAt: time.Now(),
	}); err == nil {
		t.Error("duplicate email was accepted")
	}
}

func TestSQLiteSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetSettings(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	settings := models.DefaultSettings("user-1")
	if err := s.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := s.GetSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !got.DarkMode || got.NotificationsEnabled || !got.SaveHistory {
		t.Errorf("settings = %+v, want defaults", got)
	}

	// Upsert replaces the row.
	settings.DarkMode = false
	settings.NotificationsEnabled = true
	settings.UpdatedAt = time.Now()
	if err := s.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err = s.GetSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got.DarkMode || !got.NotificationsEnabled {
		t.Errorf("settings after update = %+v", got)
	}
}
