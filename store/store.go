package store

import (
	"context"
	"time"

	"github.com/edupath/mentor/internal/profile"
	"github.com/edupath/mentor/store/cache"
)

// Store provides database access to conversation documents, fronted by an
// in-memory read cache.
type Store struct {
	profile *profile.Profile
	driver  Driver
	cache   *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		cache:   cache.New(cache.Config{}),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.cache.Close()
	return s.driver.Close()
}

// GetConversation returns the stored message sequence for the user
// identifier, or an empty sequence when no conversation exists. The returned
// slice is always the caller's own copy: callers append to it, and a slice
// shared with the cache would let that append write into the cached document.
func (s *Store) GetConversation(ctx context.Context, userID string) ([]Message, error) {
	if cached, ok := s.cache.Get(userID); ok {
		if messages, ok := cached.([]Message); ok {
			return cloneMessages(messages), nil
		}
	}

	conversation, err := s.driver.GetConversation(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return []Message{}, nil
	}
	s.cache.Set(userID, cloneMessages(conversation.Messages))
	return conversation.Messages, nil
}

// UpsertConversation overwrites the entire conversation document for the
// user identifier. The write is all-or-nothing; there is no append path.
func (s *Store) UpsertConversation(ctx context.Context, userID string, messages []Message) error {
	if err := s.driver.UpsertConversation(ctx, &Conversation{
		UserID:    userID,
		Messages:  messages,
		UpdatedTs: time.Now().Unix(),
	}); err != nil {
		return err
	}
	s.cache.Set(userID, cloneMessages(messages))
	return nil
}

// DeleteConversation hard-deletes the conversation document. Deleting a
// conversation that does not exist is not an error.
func (s *Store) DeleteConversation(ctx context.Context, userID string) error {
	if err := s.driver.DeleteConversation(ctx, userID); err != nil {
		return err
	}
	s.cache.Delete(userID)
	return nil
}

// cloneMessages copies a message slice so cache and callers never share a
// backing array. Message has no reference fields, so a shallow copy is a
// full copy.
func cloneMessages(messages []Message) []Message {
	cloned := make([]Message, len(messages))
	copy(cloned, messages)
	return cloned
}

// VacuumConversations removes conversations untouched for longer than the
// retention period. Cached entries age out on their own TTL.
func (s *Store) VacuumConversations(ctx context.Context, retention time.Duration) (int64, error) {
	beforeTs := time.Now().Add(-retention).Unix()
	return s.driver.VacuumConversations(ctx, beforeTs)
}
