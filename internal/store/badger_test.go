package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"simonai/internal/models"
)

func newTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerConversationLifecycle(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	first, err := s.CreateConversation(ctx, "user-1", "Ciao Simon")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	// Space the creations out so newest-first ordering is unambiguous.
	time.Sleep(2 * time.Millisecond)
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

	if err := s.DeleteMessages(ctx, first.ID); err != nil {
		t.Fatalf("DeleteMessages: %v", err)
	}
	if err := s.DeleteConversation(ctx, first.ID); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
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

	others, err := s.ListConversations(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(others) != 1 {
		t.Fatalf("other user has %d conversations, want 1", len(others))
	}
}

func TestBadgerProfilesAndSettings(t *testing.T) {
	s := newTestBadger(t)
	ctx := context.Background()

	if _, err := s.GetProfileByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	profile := &models.Profile{
		ID:           "user-1",
		Email:        "Simone@Example.com",
		Name:         "Simone",
		PasswordHash: "abc123",
		CreatedAt:    time.Now(),
	}
	if err := s.CreateProfile(ctx, profile); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	// Lookup is case-insensitive on email.
	got, err := s.GetProfileByEmail(ctx, "simone@example.com")
	if err != nil {
		t.Fatalf("GetProfileByEmail: %v", err)
	}
	if got.ID != "user-1" || got.PasswordHash != "abc123" {
		t.Errorf("profile = %+v", got)
	}

	if _, err := s.GetSettings(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	settings := models.DefaultSettings("user-1")
	if err := s.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	loaded, err := s.GetSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !loaded.DarkMode || loaded.NotificationsEnabled || !loaded.SaveHistory {
		t.Errorf("settings = %+v, want defaults", loaded)
	}

	settings.SaveHistory = false
	if err := s.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	loaded, err = s.GetSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if loaded.SaveHistory {
		t.Error("settings update did not persist")
	}
}
