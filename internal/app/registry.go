package app

import (
	"context"
	"sync"
	"time"

	"agristock-backend/internal/lifecycle"
	"agristock-backend/internal/presence"
	"agristock-backend/internal/session"
	"agristock-backend/pkg/logger"
	"agristock-backend/pkg/metrics"

	"go.uber.org/zap"
)

// Registry owns the app instances of signed-in users, keyed by user id.
//
// Presence is written only for transitions the device reports or for an
// explicit sign-out. Evicting an idle instance, releasing under memory
// pressure and shutting the server down leave the presence record alone.
type Registry struct {
	parent       context.Context
	presenceRepo presence.Repository
	metrics      *metrics.Metrics
	log          *zap.Logger
	now          func() time.Time

	mu        sync.Mutex
	instances map[string]*Instance
}

// NewRegistry creates a registry. parent bounds the lifetime of every instance scope.
func NewRegistry(parent context.Context, presenceRepo presence.Repository, m *metrics.Metrics, log *zap.Logger) *Registry {
	return &Registry{
		parent:       parent,
		presenceRepo: presenceRepo,
		metrics:      m,
		log:          logger.Component(log, "app"),
		now:          time.Now,
		instances:    make(map[string]*Instance),
	}
}

// Open returns the instance for the session's user, creating it on first use.
// An existing instance has its session refreshed. Every call marks the
// instance as used.
func (r *Registry) Open(s session.Session) *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.instances[s.UserID]; ok {
		inst.Session.Set(s)
		inst.touch(r.now())
		return inst
	}

	holder := session.NewHolder()
	holder.Set(s)

	bus := lifecycle.NewBus(logger.Component(r.log, "lifecycle"))
	tracker := presence.NewTracker(holder, r.presenceRepo, r.metrics, logger.Component(r.log, "presence"))

	inst := &Instance{
		UserID:   s.UserID,
		Session:  holder,
		Bus:      bus,
		Presence: tracker,
		Scope:    NewScope(r.parent),
	}
	inst.touch(r.now())

	bus.Subscribe("presence", tracker.Handle)
	bus.Subscribe("metrics", func(ctx context.Context, e lifecycle.Event) error {
		r.metrics.LifecycleEvent(string(e))
		return nil
	})
	// A device that reports terminate is gone; its offline write has already run.
	bus.Subscribe("release", func(ctx context.Context, e lifecycle.Event) error {
		if e == lifecycle.Terminate {
			r.evict(inst, "terminated")
		}
		return nil
	})

	r.instances[s.UserID] = inst
	r.log.Info("app instance opened", zap.String("user_id", s.UserID))
	return inst
}

func (r *Registry) Get(userID string) (*Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[userID]
	return inst, ok
}

// Close signs the user's instance out: presence goes offline, the session is
// dropped and pending work is cancelled. It reports whether an instance existed.
func (r *Registry) Close(ctx context.Context, userID string) bool {
	r.mu.Lock()
	inst, ok := r.instances[userID]
	delete(r.instances, userID)
	r.mu.Unlock()

	if !ok {
		return false
	}
	inst.signOut(ctx)
	r.log.Info("app instance closed", zap.String("user_id", userID))
	return true
}

// Sweep releases instances not opened since cutoff and returns how many it
// released. The next request from such a user opens a fresh instance.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	var idle []*Instance
	for uid, inst := range r.instances {
		if inst.idleSince(cutoff) {
			idle = append(idle, inst)
			delete(r.instances, uid)
		}
	}
	r.mu.Unlock()

	for _, inst := range idle {
		inst.release()
	}
	if len(idle) > 0 {
		r.log.Info("released idle app instances", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// ReleaseAll frees every instance, e.g. under memory pressure.
func (r *Registry) ReleaseAll() int {
	return r.Sweep(r.now().Add(time.Hour))
}

// Run sweeps instances idle for longer than idleTTL until ctx is done.
// A non-positive idleTTL disables eviction.
func (r *Registry) Run(ctx context.Context, idleTTL time.Duration) error {
	if idleTTL <= 0 {
		r.log.Info("idle instance eviction disabled")
		return nil
	}

	ticker := time.NewTicker(idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep(r.now().Add(-idleTTL))
		}
	}
}

// Shutdown releases every instance when the server stops. The devices are
// still running, so their presence is left as they last reported it.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	instances := r.instances
	r.instances = make(map[string]*Instance)
	r.mu.Unlock()

	for _, inst := range instances {
		inst.release()
	}
	r.log.Info("app instances released", zap.Int("count", len(instances)))
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

func (r *Registry) evict(inst *Instance, reason string) {
	r.mu.Lock()
	if r.instances[inst.UserID] == inst {
		delete(r.instances, inst.UserID)
	}
	r.mu.Unlock()

	inst.release()
	r.log.Info("app instance released", zap.String("user_id", inst.UserID), zap.String("reason", reason))
}
