package app

import (
	"context"
	"sync"
)

// Scope runs tasks tied to the lifetime of an app instance. Closing the scope
// cancels every pending task and suppresses their completions, so nothing
// reports back into an instance that has been torn down.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Go runs task in the background. done, if non-nil, receives the task's
// result only when the scope is still open at completion; it must not close
// the scope. Go reports false when the scope is already closed.
func (s *Scope) Go(task func(ctx context.Context) error, done func(err error)) bool {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return false
	}
	s.wg.Add(1)
	s.mu.RUnlock()

	go func() {
		defer s.wg.Done()
		err := task(s.ctx)

		s.mu.RLock()
		defer s.mu.RUnlock()
		if !s.closed && done != nil {
			done(err)
		}
	}()
	return true
}

func (s *Scope) Context() context.Context {
	return s.ctx
}

func (s *Scope) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close cancels pending tasks. It is safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Wait blocks until every task started by Go has returned.
func (s *Scope) Wait() {
	s.wg.Wait()
}
