package presence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agristock-backend/internal/lifecycle"
	"agristock-backend/internal/session"
	"agristock-backend/pkg/metrics"

	"go.uber.org/zap"
)

type State int

const (
	StateUnknown State = iota
	StateForeground
	StateBackground
)

func (s State) String() string {
	switch s {
	case StateForeground:
		return "foreground"
	case StateBackground:
		return "background"
	}
	return "unknown"
}

// SessionSource reports the session of the app instance, if any.
type SessionSource interface {
	Current() (session.Session, bool)
}

// Tracker mirrors the foreground/background state of one app instance into
// the user's presence fields. It is level-triggered and best-effort: every
// event issues a write when a session exists, and failed writes are dropped.
type Tracker struct {
	sessions SessionSource
	repo     Repository
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	state State
}

func NewTracker(sessions SessionSource, repo Repository, m *metrics.Metrics, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		sessions: sessions,
		repo:     repo,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Handle is a lifecycle.Handler.
func (t *Tracker) Handle(ctx context.Context, event lifecycle.Event) error {
	online := event == lifecycle.ForegroundEnter

	t.mu.Lock()
	if online {
		t.state = StateForeground
	} else {
		t.state = StateBackground
	}
	t.mu.Unlock()

	s, ok := t.sessions.Current()
	if !ok {
		t.log.Debug("no session, skipping presence write", zap.String("event", string(event)))
		return nil
	}

	err := t.repo.SetOnline(ctx, s.UserID, online, t.now())
	t.metrics.PresenceWrite(online, err)
	if err != nil {
		return fmt.Errorf("set online=%t for %s: %w", online, s.UserID, err)
	}

	t.log.Debug("presence updated",
		zap.String("user_id", s.UserID),
		zap.Bool("online", online),
		zap.String("event", string(event)))
	return nil
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
