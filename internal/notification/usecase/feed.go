package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"agristock-backend/internal/notification/domain"
)

// Source supplies the held notification entries of a user, oldest first.
type Source interface {
	Entries(ctx context.Context, userID string) ([]domain.Entry, error)
}

// EmptySource is a source with no backing store; every list is empty.
type EmptySource struct{}

func (EmptySource) Entries(context.Context, string) ([]domain.Entry, error) {
	return nil, nil
}

// MemoryFeed holds routed notifications per user for the life of the process.
// Entries beyond capacity are dropped oldest first.
type MemoryFeed struct {
	capacity int

	mu      sync.Mutex
	entries map[string][]domain.Entry
}

func NewMemoryFeed(capacity int) *MemoryFeed {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryFeed{capacity: capacity, entries: make(map[string][]domain.Entry)}
}

func (f *MemoryFeed) Add(userID string, e domain.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := append(f.entries[userID], e)
	if over := len(list) - f.capacity; over > 0 {
		list = slices.Clone(list[over:])
	}
	f.entries[userID] = list
}

func (f *MemoryFeed) Entries(_ context.Context, userID string) ([]domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.entries[userID]), nil
}

// MarkAllRead clears the unread flag on every entry of the user and reports how many changed.
func (f *MemoryFeed) MarkAllRead(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for i := range f.entries[userID] {
		if !f.entries[userID][i].Read {
			f.entries[userID][i].Read = true
			n++
		}
	}
	return n
}

// Feed is one rendering of the notifications screen.
type Feed struct {
	Items       []domain.Item `json:"items"`
	UnreadCount int           `json:"unread_count"`
}

// Reverse returns items in the opposite order without touching the input.
// Reversing twice yields the original order.
func Reverse(items []domain.Item) []domain.Item {
	out := slices.Clone(items)
	slices.Reverse(out)
	return out
}

// TimeAgo renders the age of an entry the way the list shows it.
func TimeAgo(since time.Duration) string {
	switch {
	case since < time.Minute:
		return "just now"
	case since < time.Hour:
		return fmt.Sprintf("%dm ago", int(since/time.Minute))
	case since < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(since/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(since/(24*time.Hour)))
	}
}
