// Package settings stores per-guild dashboard settings as opaque JSON
// documents. There is no schema: the store hands back exactly what was put.
package settings

import (
	"context"
	"encoding/json"
)

// EmptyDocument is what Get returns for a guild nothing was ever saved for.
var EmptyDocument = json.RawMessage(`{}`)

// Repo defines guild settings persistence. A Put replaces the whole document;
// there are no merge semantics.
type Repo interface {
	// Get returns the stored document, or an empty object when none exists.
	// Absence is not an error.
	Get(ctx context.Context, guildID string) (json.RawMessage, error)

	// Put stores the document wholesale, overwriting any previous one
	Put(ctx context.Context, guildID string, doc json.RawMessage) error
}
