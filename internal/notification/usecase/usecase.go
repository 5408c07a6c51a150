package usecase

import (
	"context"
	"fmt"
	"time"

	"agristock-backend/internal/notification/domain"
)

// NotificationUsecase defines the interface for the notifications screen
type NotificationUsecase interface {
	// List returns the feed, newest first unless oldestFirst is set
	List(ctx context.Context, userID string, oldestFirst bool) (*Feed, error)
}

type notificationUsecase struct {
	source Source
	now    func() time.Time
}

func NewNotificationUsecase(source Source) NotificationUsecase {
	if source == nil {
		source = EmptySource{}
	}
	return &notificationUsecase{source: source, now: time.Now}
}

func (u *notificationUsecase) List(ctx context.Context, userID string, oldestFirst bool) (*Feed, error) {
	entries, err := u.source.Entries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load notifications for %s: %w", userID, err)
	}

	now := u.now()
	feed := &Feed{Items: make([]domain.Item, 0, len(entries))}
	for _, e := range entries {
		feed.Items = append(feed.Items, domain.Item{
			Name:         e.Name,
			ActivityType: e.ActivityType,
			TimeAgo:      TimeAgo(now.Sub(e.ReceivedAt)),
			IsUnread:     !e.Read,
		})
		if !e.Read {
			feed.UnreadCount++
		}
	}
	if !oldestFirst {
		feed.Items = Reverse(feed.Items)
	}
	return feed, nil
}
