package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"agristock-backend/internal/lifecycle"
	"agristock-backend/internal/presence"
	"agristock-backend/internal/session"
	"agristock-backend/pkg/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_DeliversCompletionWhileOpen(t *testing.T) {
	scope := NewScope(context.Background())
	defer scope.Close()

	done := make(chan error, 1)
	started := scope.Go(func(ctx context.Context) error {
		return errors.New("token save failed")
	}, func(err error) { done <- err })
	require.True(t, started)

	select {
	case err := <-done:
		assert.EqualError(t, err, "token save failed")
	case <-time.After(time.Second):
		t.Fatal("completion not delivered")
	}
}

func TestScope_CloseCancelsAndSuppressesCompletion(t *testing.T) {
	scope := NewScope(context.Background())

	var delivered atomic.Bool
	running := make(chan struct{})
	var taskErr atomic.Value

	scope.Go(func(ctx context.Context) error {
		close(running)
		<-ctx.Done()
		taskErr.Store(ctx.Err())
		return ctx.Err()
	}, func(err error) { delivered.Store(true) })

	<-running
	scope.Close()
	scope.Wait()

	assert.False(t, delivered.Load())
	assert.ErrorIs(t, taskErr.Load().(error), context.Canceled)
	assert.True(t, scope.Closed())
}

func TestScope_GoAfterCloseIsRejected(t *testing.T) {
	scope := NewScope(context.Background())
	scope.Close()
	scope.Close()

	ran := false
	assert.False(t, scope.Go(func(ctx context.Context) error { ran = true; return nil }, nil))
	scope.Wait()
	assert.False(t, ran)
}

func newTestRegistry() (*Registry, *docstore.MemoryStore) {
	store := docstore.NewMemoryStore()
	return NewRegistry(context.Background(), presence.NewRepository(store), nil, nil), store
}

func TestRegistry_OpenReusesInstance(t *testing.T) {
	reg, _ := newTestRegistry()

	a := reg.Open(session.Session{UserID: "u1"})
	b := reg.Open(session.Session{UserID: "u1", Email: "u1@agristock.test"})

	assert.Same(t, a, b)
	assert.Equal(t, 1, reg.Len())

	s, ok := b.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "u1@agristock.test", s.Email)
}

func TestRegistry_PublishDrivesPresence(t *testing.T) {
	reg, store := newTestRegistry()
	inst := reg.Open(session.Session{UserID: "u1"})
	ctx := context.Background()

	inst.Publish(ctx, lifecycle.ForegroundEnter)
	inst.Publish(ctx, lifecycle.ForegroundExit)

	writes := store.Writes()
	require.Len(t, writes, 2)
	assert.Equal(t, true, writes[0].Fields["online"])
	assert.Equal(t, false, writes[1].Fields["online"])
}

func TestRegistry_CloseWritesOfflineAndCancelsScope(t *testing.T) {
	reg, store := newTestRegistry()
	inst := reg.Open(session.Session{UserID: "u1"})

	assert.True(t, reg.Close(context.Background(), "u1"))

	writes := store.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, false, writes[0].Fields["online"])

	_, ok := inst.Session.Current()
	assert.False(t, ok)
	assert.True(t, inst.Scope.Closed())
	_, ok = reg.Get("u1")
	assert.False(t, ok)

	// A late event on the torn-down instance finds no session.
	inst.Publish(context.Background(), lifecycle.ForegroundEnter)
	assert.Len(t, store.Writes(), 1)

	assert.False(t, reg.Close(context.Background(), "u1"))
}

func TestRegistry_ShutdownLeavesPresenceAlone(t *testing.T) {
	reg, store := newTestRegistry()
	inst := reg.Open(session.Session{UserID: "u1"})
	reg.Open(session.Session{UserID: "u2"})

	inst.Publish(context.Background(), lifecycle.ForegroundEnter)
	require.Len(t, store.Writes(), 1)

	reg.Shutdown()

	writes := store.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, true, writes[0].Fields["online"])
	assert.Zero(t, reg.Len())
	assert.True(t, inst.Scope.Closed())
}

func TestRegistry_SweepReleasesIdleInstances(t *testing.T) {
	reg, store := newTestRegistry()
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	now := start
	reg.now = func() time.Time { return now }

	stale := reg.Open(session.Session{UserID: "idle"})
	now = start.Add(20 * time.Minute)
	reg.Open(session.Session{UserID: "busy"})

	released := reg.Sweep(start.Add(10 * time.Minute))

	assert.Equal(t, 1, released)
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Get("idle")
	assert.False(t, ok)
	assert.True(t, stale.Scope.Closed())
	assert.Empty(t, store.Writes())

	// Opening again refreshes the stamp and returns a new instance.
	fresh := reg.Open(session.Session{UserID: "idle"})
	assert.NotSame(t, stale, fresh)
}

func TestRegistry_ManySessionsDoNotAccumulate(t *testing.T) {
	reg, _ := newTestRegistry()
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return start }

	for i := 0; i < 1000; i++ {
		reg.Open(session.Session{UserID: fmt.Sprintf("user-%d", i)})
	}
	require.Equal(t, 1000, reg.Len())

	assert.Equal(t, 1000, reg.Sweep(start.Add(time.Minute)))
	assert.Zero(t, reg.Len())
}

func TestRegistry_ReleaseAllWritesNothing(t *testing.T) {
	reg, store := newTestRegistry()
	reg.Open(session.Session{UserID: "u1"})
	reg.Open(session.Session{UserID: "u2"})

	assert.Equal(t, 2, reg.ReleaseAll())
	assert.Zero(t, reg.Len())
	assert.Empty(t, store.Writes())
}

func TestRegistry_DeviceTerminateWritesOfflineAndReleases(t *testing.T) {
	reg, store := newTestRegistry()
	inst := reg.Open(session.Session{UserID: "u1"})

	inst.Publish(context.Background(), lifecycle.Terminate)

	writes := store.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, false, writes[0].Fields["online"])
	assert.Zero(t, reg.Len())
	assert.True(t, inst.Scope.Closed())
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	reg, _ := newTestRegistry()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	assert.NoError(t, reg.Run(context.Background(), 0))
}

func TestInstance_BindCancelsOnClose(t *testing.T) {
	reg, _ := newTestRegistry()
	inst := reg.Open(session.Session{UserID: "u1"})

	ctx, cancel := inst.Bind(context.Background())
	defer cancel()
	require.NoError(t, ctx.Err())

	reg.Close(context.Background(), "u1")

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("bound context not cancelled")
	}
}
