package settings

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// InMemorySettingsRepo is an in-memory implementation of Repo. Documents live
// for the process lifetime and are not persisted across restarts.
type InMemorySettingsRepo struct {
	mu        sync.RWMutex
	documents map[string]json.RawMessage
}

// NewInMemoryRepo creates a new in-memory settings repository
func NewInMemoryRepo() *InMemorySettingsRepo {
	return &InMemorySettingsRepo{
		documents: make(map[string]json.RawMessage),
	}
}

// Get returns the stored document for the guild, or an empty object.
func (r *InMemorySettingsRepo) Get(_ context.Context, guildID string) (json.RawMessage, error) {
	if guildID == "" {
		return nil, errors.New("guildID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.documents[guildID]
	if !ok {
		return EmptyDocument, nil
	}

	// Return a copy to prevent external modifications
	out := make(json.RawMessage, len(doc))
	copy(out, doc)
	return out, nil
}

// Put replaces the guild's document wholesale.
func (r *InMemorySettingsRepo) Put(_ context.Context, guildID string, doc json.RawMessage) error {
	if guildID == "" {
		return errors.New("guildID cannot be empty")
	}

	stored := make(json.RawMessage, len(doc))
	copy(stored, doc)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.documents[guildID] = stored
	return nil
}
