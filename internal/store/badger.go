package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"simonai/internal/models"
)

// BadgerStore keeps conversations, messages, profiles and settings in a
// local BadgerDB. Key layout:
//
//	metadata:conv:<convID>    conversation record (holds the owning user)
//	conv:<convID>:msg:<msgID> message record
//	profile:<email>           account profile
//	settings:<userID>         user settings
type BadgerStore struct {
	db *badger.DB
}

type conversationRecord struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt int64
}

func NewBadgerStore(dbPath string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

func nanoTime(n int64) time.Time {
	return time.Unix(0, n)
}

func conversationKey(id string) []byte {
	return []byte("metadata:conv:" + id)
}

func messagePrefix(conversationID string) []byte {
	return []byte(fmt.Sprintf("conv:%s:msg:", conversationID))
}

func (s *BadgerStore) CreateConversation(ctx context.Context, userID, title string) (*models.Conversation, error) {
	conv := models.NewConversation(userID, title)

	rec := conversationRecord{
		ID:        conv.ID,
		UserID:    userID,
		Title:     title,
		CreatedAt: conv.CreatedAt.UnixNano(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(conversationKey(conv.ID), data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store conversation: %w", err)
	}
	return conv, nil
}

func (s *BadgerStore) listRecords(userID string) ([]conversationRecord, error) {
	var records []conversationRecord
	prefix := []byte("metadata:conv:")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var rec conversationRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				if rec.UserID == userID {
					records = append(records, rec)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	// Newest first
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	return records, nil
}

func (s *BadgerStore) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	records, err := s.listRecords(userID)
	if err != nil {
		return nil, err
	}

	conversations := make([]models.Conversation, 0, len(records))
	for _, rec := range records {
		msgs, err := s.getMessages(rec.ID)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, models.Conversation{
			ID:        rec.ID,
			UserID:    rec.UserID,
			Title:     rec.Title,
			Messages:  msgs,
			CreatedAt: nanoTime(rec.CreatedAt),
		})
	}
	return conversations, nil
}

func (s *BadgerStore) ConversationIDs(ctx context.Context, userID string) ([]string, error) {
	records, err := s.listRecords(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

func (s *BadgerStore) getMessages(conversationID string) ([]models.Message, error) {
	var messages []models.Message
	prefix := messagePrefix(conversationID)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var msg models.Message
				if err := json.Unmarshal(val, &msg); err != nil {
					return err
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve messages: %w", err)
	}

	// Creation order; IDs are nano-stamped so they break timestamp ties.
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func (s *BadgerStore) InsertMessages(ctx context.Context, conversationID string, msgs []models.Message) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, msg := range msgs {
			msg.ConversationID = conversationID
			data, err := json.Marshal(msg)
			if err != nil {
				return fmt.Errorf("failed to marshal message: %w", err)
			}
			key := fmt.Sprintf("conv:%s:msg:%s", conversationID, msg.ID)
			if err := txn.Set([]byte(key), data); err != nil {
				return fmt.Errorf("failed to store message: %w", err)
			}
		}
		return nil
	})
}

func (s *BadgerStore) DeleteMessages(ctx context.Context, conversationID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("failed to delete message: %w", err)
			}
		}
		return nil
	})
}

func (s *BadgerStore) DeleteConversation(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(conversationKey(id)); err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

func (s *BadgerStore) DeleteUserConversations(ctx context.Context, userID string) error {
	ids, err := s.ConversationIDs(ctx, userID)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := txn.Delete(conversationKey(id)); err != nil && err != badger.ErrKeyNotFound {
				return fmt.Errorf("failed to delete conversation: %w", err)
			}
		}
		return nil
	})
}

func profileKey(email string) []byte {
	return []byte("profile:" + strings.ToLower(email))
}

func (s *BadgerStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(profile.Email), data)
	})
}

func (s *BadgerStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve profile: %w", err)
	}
	return &profile, nil
}

func (s *BadgerStore) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("settings:" + userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &settings)
		})
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve settings: %w", err)
	}
	return &settings, nil
}

func (s *BadgerStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("settings:"+settings.UserID), data)
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
