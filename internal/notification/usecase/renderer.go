package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	authrepo "agristock-backend/internal/auth/repository"
	"agristock-backend/internal/notification/domain"
	"agristock-backend/pkg/fcm"
	"agristock-backend/pkg/logger"
	"agristock-backend/pkg/metrics"

	"go.uber.org/zap"
)

// Sender delivers one push notification to a device token.
type Sender interface {
	SendToDevice(ctx context.Context, token string, notification fcm.NotificationData) error
}

// Renderer routes inbound push messages and shows them on the recipient's device.
type Renderer struct {
	tokens  authrepo.FCMTokenRepository
	sender  Sender
	feed    *MemoryFeed
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

// NewRenderer creates a renderer. sender and feed may be nil; a nil sender
// only records the notification in the feed.
func NewRenderer(tokens authrepo.FCMTokenRepository, sender Sender, feed *MemoryFeed, m *metrics.Metrics, log *zap.Logger) *Renderer {
	return &Renderer{
		tokens:  tokens,
		sender:  sender,
		feed:    feed,
		metrics: m,
		log:     logger.Component(log, "push"),
		now:     time.Now,
	}
}

// Render routes msg and sends it to the recipient's registered device.
func (r *Renderer) Render(ctx context.Context, msg domain.InboundMessage) (domain.LocalNotification, error) {
	now := r.now()
	n := Route(msg.Data, now)

	if r.feed != nil && msg.RecipientID != "" {
		r.feed.Add(msg.RecipientID, domain.Entry{
			Name:         n.Title,
			ActivityType: n.Channel.ID,
			ReceivedAt:   now,
		})
	}

	err := r.deliver(ctx, msg.RecipientID, n)
	r.metrics.PushRouted(n.Channel.ID, err)
	return n, err
}

func (r *Renderer) deliver(ctx context.Context, userID string, n domain.LocalNotification) error {
	if r.sender == nil || userID == "" {
		return nil
	}

	token, err := r.tokens.GetToken(ctx, userID)
	if err != nil {
		return fmt.Errorf("get push token for %s: %w", userID, err)
	}
	if token == "" {
		r.log.Debug("no push token, skipping device delivery", zap.String("user_id", userID))
		return nil
	}

	err = r.sender.SendToDevice(ctx, token, fcm.NotificationData{
		Title:     n.Title,
		Body:      n.Body,
		Data:      n.Data,
		ChannelID: n.Channel.ID,
		Tag:       strconv.FormatInt(int64(n.ID), 10),
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, fcm.ErrTokenInvalid) {
		r.log.Info("discarding invalid push token", zap.String("user_id", userID))
		if derr := r.tokens.DeleteToken(ctx, userID, token); derr != nil {
			r.log.Warn("failed to delete push token", zap.String("user_id", userID), zap.Error(derr))
		}
	}
	return fmt.Errorf("send push to %s: %w", userID, err)
}
