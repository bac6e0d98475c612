package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/quizbox/quizbox-bot/internal/kvstore"
)

const subscribersKey = "review:subscribers"

// SubscriberStore keeps the set of chats that receive the daily reminder,
// persisted through the same key-value medium as the review state.
type SubscriberStore struct {
	mu    sync.Mutex
	kv    kvstore.Store
	chats map[int64]bool
}

// NewSubscriberStore loads the subscriber set; absence means empty and a
// corrupt blob is discarded rather than guessed at.
func NewSubscriberStore(ctx context.Context, kv kvstore.Store) (*SubscriberStore, error) {
	s := &SubscriberStore{kv: kv, chats: make(map[int64]bool)}

	blob, err := kv.Get(ctx, subscribersKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("read subscribers: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal([]byte(blob), &ids); err != nil {
		return s, nil
	}
	for _, id := range ids {
		s.chats[id] = true
	}
	return s, nil
}

// Add subscribes a chat. Re-subscribing is a no-op.
func (s *SubscriberStore) Add(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chats[chatID] {
		return nil
	}
	s.chats[chatID] = true
	return s.writeLocked(ctx)
}

// Remove unsubscribes a chat.
func (s *SubscriberStore) Remove(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.chats[chatID] {
		return nil
	}
	delete(s.chats, chatID)
	return s.writeLocked(ctx)
}

// All returns the subscribed chat IDs in stable order.
func (s *SubscriberStore) All() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *SubscriberStore) writeLocked(ctx context.Context) error {
	ids := make([]int64, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	blob, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode subscribers: %w", err)
	}
	if err := s.kv.Set(ctx, subscribersKey, string(blob)); err != nil {
		return fmt.Errorf("write subscribers: %w", err)
	}
	return nil
}
