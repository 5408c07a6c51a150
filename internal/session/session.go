package session

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Session is a signed-in user identity issued by the authentication provider.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// Holder keeps the current session of one app instance, or none.
type Holder struct {
	mu      sync.RWMutex
	current *Session
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) Current() (Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return Session{}, false
	}
	return *h.current, true
}

func (h *Holder) Set(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = &s
}

func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
}

type contextKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
