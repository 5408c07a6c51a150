package app

import (
	"context"
	"sync/atomic"
	"time"

	"agristock-backend/internal/lifecycle"
	"agristock-backend/internal/presence"
	"agristock-backend/internal/session"
)

// Instance is one signed-in device: its session, lifecycle bus, presence
// tracker and the scope its background work runs in.
type Instance struct {
	UserID   string
	Session  *session.Holder
	Bus      *lifecycle.Bus
	Presence *presence.Tracker
	Scope    *Scope

	// unix nanoseconds of the last request that opened the instance
	lastUsed atomic.Int64
}

// Publish delivers a lifecycle event to this instance's subscribers.
func (i *Instance) Publish(ctx context.Context, event lifecycle.Event) int {
	return i.Bus.Publish(ctx, event)
}

func (i *Instance) touch(at time.Time) {
	i.lastUsed.Store(at.UnixNano())
}

func (i *Instance) idleSince(cutoff time.Time) bool {
	return i.lastUsed.Load() < cutoff.UnixNano()
}

// signOut reports the instance offline while the session still exists, then
// releases it.
func (i *Instance) signOut(ctx context.Context) {
	i.Bus.Publish(ctx, lifecycle.ForegroundExit)
	i.release()
}

// release drops the session and cancels pending work without touching presence.
func (i *Instance) release() {
	i.Session.Clear()
	i.Scope.Close()
}

// Bind derives a context that is cancelled when either ctx or the instance
// scope ends, so work started for a request stops if the instance is torn down.
func (i *Instance) Bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(i.Scope.Context(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
