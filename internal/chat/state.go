package chat

import "simonai/internal/models"

// State is the reconciler's working copy of everything the UI renders:
// the conversation list, the active thread, the current selection and the
// awaiting-response flag. It is mutated only through Reconciler intents.
type State struct {
	Conversations    []models.Conversation
	Thread           []models.Message
	Selected         string // conversation ID, empty when no conversation is selected
	AwaitingResponse bool
}

func (s *State) clone() State {
	out := State{
		Selected:         s.Selected,
		AwaitingResponse: s.AwaitingResponse,
	}
	if len(s.Conversations) > 0 {
		out.Conversations = make([]models.Conversation, len(s.Conversations))
		copy(out.Conversations, s.Conversations)
	}
	if len(s.Thread) > 0 {
		out.Thread = make([]models.Message, len(s.Thread))
		copy(out.Thread, s.Thread)
	}
	return out
}

func (s *State) conversationByID(id string) *models.Conversation {
	for i := range s.Conversations {
		if s.Conversations[i].ID == id {
			return &s.Conversations[i]
		}
	}
	return nil
}

func (s *State) threadCopy() []models.Message {
	out := make([]models.Message, len(s.Thread))
	copy(out, s.Thread)
	return out
}
