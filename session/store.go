// Package session persists per-user conversation context in a cache
// provider and enforces the retention budget across turns.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rmay1er/ai-responder/cache"
	"github.com/rmay1er/ai-responder/core/protocol"
)

const keyPrefix = "session:"

// Store maps a user identifier to serialized conversation state with a
// sliding expiry window. Reads degrade to "no prior context" on any cache
// or decode failure; writes overwrite unconditionally. Concurrent turns for
// the same user are not serialized; the later save wins.
type Store struct {
	provider cache.Provider
}

// NewStore creates a Store on top of the given cache provider. The provider
// is shared and externally owned; the store never assumes exclusive access.
func NewStore(provider cache.Provider) *Store {
	return &Store{provider: provider}
}

// LoadTranscript returns the stored message history for a user. A cache
// miss, a provider error, or a malformed stored value all yield nil, so
// the turn proceeds as if it were the first message.
func (s *Store) LoadTranscript(ctx context.Context, userID string) []protocol.Message {
	raw, ok, err := s.provider.Get(ctx, keyPrefix+userID)
	if err != nil || !ok {
		return nil
	}

	var transcript []protocol.Message
	if err := json.Unmarshal(raw, &transcript); err != nil {
		return nil
	}
	return transcript
}

// SaveTranscript serializes and stores the message history, resetting the
// entry's ttl.
func (s *Store) SaveTranscript(ctx context.Context, userID string, transcript []protocol.Message, ttl time.Duration) error {
	raw, err := json.Marshal(transcript)
	if err != nil {
		return err
	}
	return s.provider.Set(ctx, keyPrefix+userID, raw, ttl)
}

// LoadToken returns the stored continuation token for a user, or "" when
// absent or unreadable.
func (s *Store) LoadToken(ctx context.Context, userID string) string {
	raw, ok, err := s.provider.Get(ctx, keyPrefix+userID)
	if err != nil || !ok {
		return ""
	}
	return string(raw)
}

// SaveToken stores a continuation token, unconditionally replacing the
// previous one and resetting the entry's ttl.
func (s *Store) SaveToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return s.provider.Set(ctx, keyPrefix+userID, []byte(token), ttl)
}

// FlushAndClose removes every session entry and releases the provider.
// Called exactly once at process shutdown.
func (s *Store) FlushAndClose(ctx context.Context) error {
	if err := s.provider.ClearAll(ctx); err != nil {
		return err
	}
	return s.provider.Close()
}
