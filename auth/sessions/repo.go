package sessions

import "context"

// Repo defines session persistence. Implementations enforce a fixed TTL from
// creation: a Get past the deadline fails with ErrSessionExpired and evicts
// the record.
type Repo interface {
	// Create allocates an opaque identifier, stores the session and returns
	// the stored record with its identifier and expiry populated.
	Create(ctx context.Context, session Session) (Session, error)

	// Get retrieves a live session by ID
	Get(ctx context.Context, sessionID string) (Session, error)

	// Delete removes a session; deleting an absent session is not an error
	Delete(ctx context.Context, sessionID string) error
}
