package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/exositeweb/exobot-backend/internal/errors"
)

// InMemorySessionRepo is an in-memory implementation of Repo. Sessions do not
// survive a process restart.
type InMemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	nowTime  func() time.Time
}

// InMemorySessionRepoOption modifies an InMemorySessionRepo instance.
type InMemorySessionRepoOption func(*InMemorySessionRepo)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) InMemorySessionRepoOption {
	return func(r *InMemorySessionRepo) {
		r.nowTime = nowFunc
	}
}

// NewInMemoryRepo creates a new in-memory session repository with the given
// fixed TTL.
func NewInMemoryRepo(ttl time.Duration, options ...InMemorySessionRepoOption) *InMemorySessionRepo {
	repo := &InMemorySessionRepo{
		sessions: make(map[string]Session),
		ttl:      ttl,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(repo)
	}
	return repo
}

// Create stores the session under a freshly allocated identifier.
func (r *InMemorySessionRepo) Create(_ context.Context, session Session) (Session, error) {
	if session.AccessToken == "" {
		return Session{}, errors.New("access token cannot be empty")
	}

	now := r.nowTime()
	session.ID = uuid.New().String()
	session.CreatedAt = now
	session.ExpiresAt = now.Add(r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session
	return session, nil
}

// Get retrieves a session, evicting it if the TTL has elapsed.
func (r *InMemorySessionRepo) Get(_ context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, apperrors.ErrSessionNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, apperrors.ErrSessionNotFound
	}

	if r.nowTime().After(session.ExpiresAt) {
		delete(r.sessions, sessionID)
		return Session{}, apperrors.ErrSessionExpired
	}

	return session, nil
}

// Delete removes a session; idempotent.
func (r *InMemorySessionRepo) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
