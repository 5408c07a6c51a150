package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Event is a process lifecycle transition reported by the app shell or the host.
type Event string

const (
	ForegroundEnter Event = "foreground_enter"
	ForegroundExit  Event = "foreground_exit"
	LowMemory       Event = "low_memory"
	Terminate       Event = "terminate"
)

func Parse(s string) (Event, error) {
	switch e := Event(s); e {
	case ForegroundEnter, ForegroundExit, LowMemory, Terminate:
		return e, nil
	}
	return "", fmt.Errorf("unknown lifecycle event %q", s)
}

// Handler reacts to one lifecycle event.
type Handler func(ctx context.Context, event Event) error

type subscriber struct {
	name    string
	handler Handler
}

// Bus delivers events to subscribers synchronously, in subscription order.
// Publishes are serialised so the effects of consecutive events keep their order.
// Handler errors are logged and never retried.
type Bus struct {
	subMu       sync.RWMutex
	subscribers []subscriber

	pubMu sync.Mutex
	log   *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	b.subscribers = append(b.subscribers, subscriber{name: name, handler: h})
}

// Publish returns the number of handlers that failed.
func (b *Bus) Publish(ctx context.Context, event Event) int {
	b.subMu.RLock()
	subs := make([]subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.subMu.RUnlock()

	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	failed := 0
	for _, s := range subs {
		if err := s.handler(ctx, event); err != nil {
			failed++
			b.log.Warn("lifecycle handler failed",
				zap.String("event", string(event)),
				zap.String("handler", s.name),
				zap.Error(err))
		}
	}
	return failed
}
