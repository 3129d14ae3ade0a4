package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"simonai/internal/logging"
	"simonai/internal/models"
)

const (
	// Fixed assistant texts, shown verbatim in the thread.
	ImageConfirmation = "Ecco l'immagine che ho creato per te!"
	ApologyMessage    = "Mi dispiace, ho riscontrato un errore. Riprova più tardi."
)

var (
	// ErrBusy is returned when a send is already in flight.
	ErrBusy = errors.New("a response is already in flight")

	// ErrNoSession is returned when an operation requires an authenticated
	// session and none is present.
	ErrNoSession = errors.New("no active session")

	// ErrPersistence wraps store failures after the in-memory state has
	// already been updated. The local state is kept; the persisted copy may
	// be missing or partial (write-through, no rollback).
	ErrPersistence = errors.New("persistence write failed")
)

// Completer is the outbound completion endpoint.
type Completer interface {
	Complete(ctx context.Context, history []models.Turn, imageDataURL string) (string, error)
	GenerateImage(ctx context.Context, subject string) (string, error)
}

// Store is the slice of the persistence layer the reconciler needs.
type Store interface {
	CreateConversation(ctx context.Context, userID, title string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	ConversationIDs(ctx context.Context, userID string) ([]string, error)
	InsertMessages(ctx context.Context, conversationID string, msgs []models.Message) error
	DeleteMessages(ctx context.Context, conversationID string) error
	DeleteConversation(ctx context.Context, id string) error
	DeleteUserConversations(ctx context.Context, userID string) error
}

// Reconciler is the single authority over conversation and message state.
// Every user intent goes through it; it keeps the in-memory state and, when
// a session exists, the persisted state consistent.
type Reconciler struct {
	mu         sync.Mutex
	state      State
	store      Store
	completer  Completer
	classifier Classifier
	userID     string // empty while anonymous
	inFlight   bool
}

func NewReconciler(store Store, completer Completer, classifier Classifier) *Reconciler {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	return &Reconciler{
		store:      store,
		completer:  completer,
		classifier: classifier,
	}
}

// Snapshot returns a copy of the current state for rendering.
func (r *Reconciler) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// Authenticated reports whether a session is present.
func (r *Reconciler) Authenticated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userID != ""
}

// SignIn attaches a session and replaces the conversation list with the
// persisted one. Conversations created while anonymous are not migrated.
func (r *Reconciler) SignIn(ctx context.Context, userID string) error {
	convs, err := r.store.ListConversations(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load conversations: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = userID
	r.state.Conversations = convs
	return nil
}

// SignOut drops the session and clears all in-memory state.
func (r *Reconciler) SignOut() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = ""
	r.state = State{}
}

// Send runs one user turn: classify, call the completion endpoint, append
// the user and assistant messages, and sync the persisted copy.
//
// A completion failure is absorbed into the thread as the fixed apology
// message and is not returned as an error. A persistence failure after the
// thread was updated is returned wrapped in ErrPersistence; the in-memory
// state is kept as-is.
func (r *Reconciler) Send(ctx context.Context, content, imageDataURL string) error {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return ErrBusy
	}
	r.inFlight = true
	r.state.AwaitingResponse = true

	userMsg := models.NewMessage(r.state.Selected, models.RoleUser, content)
	userMsg.ImageURL = imageDataURL

	history := make([]models.Turn, 0, len(r.state.Thread)+1)
	for _, m := range r.state.Thread {
		history = append(history, models.Turn{Role: m.Role, Content: m.Content})
	}
	history = append(history, models.Turn{Role: models.RoleUser, Content: content})

	r.state.Thread = append(r.state.Thread, userMsg)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.state.AwaitingResponse = false
		r.inFlight = false
		r.mu.Unlock()
	}()

	// An attached image always routes to the vision-capable completion
	// path, never to image generation.
	var assistant models.Message
	if r.classifier.IsImageRequest(content) && imageDataURL == "" {
		subject := r.classifier.Subject(content)
		logging.Info("generating image: subject=%q", subject)

		imageURL, err := r.completer.GenerateImage(ctx, subject)
		if err != nil {
			logging.Error("image generation failed: %v", err)
			r.appendApology()
			return nil
		}
		assistant = models.NewMessage(r.selected(), models.RoleAssistant, ImageConfirmation)
		assistant.ImageURL = imageURL
	} else {
		reply, err := r.completer.Complete(ctx, history, imageDataURL)
		if err != nil {
			logging.Error("completion failed: %v", err)
			r.appendApology()
			return nil
		}
		assistant = models.NewMessage(r.selected(), models.RoleAssistant, reply)
	}

	return r.commitTurn(ctx, content, userMsg, assistant)
}

func (r *Reconciler) selected() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Selected
}

func (r *Reconciler) appendApology() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Thread = append(r.state.Thread, models.NewMessage(r.state.Selected, models.RoleAssistant, ApologyMessage))
}

// commitTurn appends the assistant message and syncs the persisted copy.
// In-memory state is updated first and kept even when a store write fails.
func (r *Reconciler) commitTurn(ctx context.Context, content string, userMsg, assistant models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Thread = append(r.state.Thread, assistant)

	var persistErr error
	switch {
	case r.userID != "" && r.state.Selected == "":
		conv, err := r.store.CreateConversation(ctx, r.userID, models.DeriveTitle(content))
		if err != nil {
			persistErr = err
			break
		}
		userMsg.ConversationID = conv.ID
		assistant.ConversationID = conv.ID
		for i := range r.state.Thread {
			if r.state.Thread[i].ConversationID == "" {
				r.state.Thread[i].ConversationID = conv.ID
			}
		}
		if err := r.store.InsertMessages(ctx, conv.ID, []models.Message{userMsg, assistant}); err != nil {
			persistErr = err
		}
		conv.Messages = r.state.threadCopy()
		r.state.Conversations = append([]models.Conversation{*conv}, r.state.Conversations...)
		r.state.Selected = conv.ID

	case r.userID != "" && r.state.Selected != "":
		userMsg.ConversationID = r.state.Selected
		assistant.ConversationID = r.state.Selected
		if err := r.store.InsertMessages(ctx, r.state.Selected, []models.Message{userMsg, assistant}); err != nil {
			persistErr = err
		}
		if conv := r.state.conversationByID(r.state.Selected); conv != nil {
			conv.Messages = r.state.threadCopy()
		}

	case r.state.Selected == "":
		conv := models.NewConversation("", models.DeriveTitle(content))
		conv.Messages = r.state.threadCopy()
		r.state.Conversations = append([]models.Conversation{*conv}, r.state.Conversations...)
		r.state.Selected = conv.ID

	default:
		if conv := r.state.conversationByID(r.state.Selected); conv != nil {
			conv.Messages = r.state.threadCopy()
		}
	}

	if persistErr != nil {
		logging.Error("persistence sync failed: %v", persistErr)
		return fmt.Errorf("%w: %v", ErrPersistence, persistErr)
	}
	return nil
}

// NewChat clears the active thread and deselects the current conversation.
// Stored conversations are untouched.
func (r *Reconciler) NewChat() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Thread = nil
	r.state.Selected = ""
}

// SelectConversation makes the conversation active and replaces the thread
// with its message list verbatim. Unknown identifiers are ignored.
func (r *Reconciler) SelectConversation(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv := r.state.conversationByID(id)
	if conv == nil {
		return
	}
	r.state.Selected = id
	r.state.Thread = make([]models.Message, len(conv.Messages))
	copy(r.state.Thread, conv.Messages)
}

// DeleteConversation removes the conversation locally and, when a session
// exists, deletes its persisted messages before the conversation record.
func (r *Reconciler) DeleteConversation(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var persistErr error
	if r.userID != "" {
		if err := r.store.DeleteMessages(ctx, id); err != nil {
			persistErr = err
		} else if err := r.store.DeleteConversation(ctx, id); err != nil {
			persistErr = err
		}
	}

	kept := r.state.Conversations[:0]
	for _, c := range r.state.Conversations {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	r.state.Conversations = kept

	if r.state.Selected == id {
		r.state.Selected = ""
		r.state.Thread = nil
	}

	if persistErr != nil {
		logging.Error("delete conversation %s: %v", id, persistErr)
		return fmt.Errorf("%w: %v", ErrPersistence, persistErr)
	}
	return nil
}

// DeleteAllConversations deletes every persisted conversation owned by the
// session, then clears all in-memory state. Requires a session; without one
// it fails and leaves the state untouched.
func (r *Reconciler) DeleteAllConversations(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.userID == "" {
		return ErrNoSession
	}

	ids, err := r.store.ConversationIDs(ctx, r.userID)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}
	for _, id := range ids {
		if err := r.store.DeleteMessages(ctx, id); err != nil {
			return fmt.Errorf("failed to delete messages for %s: %w", id, err)
		}
	}
	if err := r.store.DeleteUserConversations(ctx, r.userID); err != nil {
		return fmt.Errorf("failed to delete conversations: %w", err)
	}

	r.state.Conversations = nil
	r.state.Thread = nil
	r.state.Selected = ""
	return nil
}
