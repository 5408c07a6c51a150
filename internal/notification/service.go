package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agristock-backend/internal/notification/domain"
	"agristock-backend/pkg/logger"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Renderer shows one inbound push on the recipient's device.
type Renderer interface {
	Render(ctx context.Context, msg domain.InboundMessage) (domain.LocalNotification, error)
}

// Service consumes inbound push messages from a Pub/Sub subscription.
type Service struct {
	pubsubClient *pubsub.Client
	renderer     Renderer
	topicName    string
	subName      string
	log          *zap.Logger
}

// NewService creates the consumer. topicName may be empty when the
// subscription is provisioned elsewhere.
func NewService(ctx context.Context, projectID, subName, topicName, credentialsFile string, renderer Renderer, log *zap.Logger) (*Service, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Service{
		pubsubClient: client,
		renderer:     renderer,
		topicName:    topicName,
		subName:      subName,
		log:          logger.Component(log, "pubsub"),
	}, nil
}

// Start receives messages until ctx is cancelled. Every message is acked:
// a push that cannot be delivered is not redelivered.
func (s *Service) Start(ctx context.Context) error {
	s.log.Info("starting push consumer", zap.String("subscription", s.subName), zap.String("topic", s.topicName))

	sub, err := s.subscription(ctx)
	if err != nil {
		return err
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg.Data)
		msg.Ack()
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("receive push messages: %w", err)
	}
	s.log.Info("push consumer stopped")
	return nil
}

func (s *Service) subscription(ctx context.Context) (*pubsub.Subscription, error) {
	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check subscription %s: %w", s.subName, err)
	}
	if exists {
		return sub, nil
	}
	if s.topicName == "" {
		return nil, fmt.Errorf("subscription %s does not exist and no topic is configured", s.subName)
	}

	topic := s.pubsubClient.Topic(s.topicName)
	topicExists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check topic %s: %w", s.topicName, err)
	}
	if !topicExists {
		return nil, fmt.Errorf("topic %s does not exist", s.topicName)
	}

	sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create subscription %s: %w", s.subName, err)
	}
	s.log.Info("created subscription", zap.String("subscription", s.subName))
	return sub, nil
}

func (s *Service) handleMessage(ctx context.Context, data []byte) {
	var msg domain.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Warn("dropping malformed push message", zap.Error(err))
		return
	}
	if msg.RecipientID == "" {
		s.log.Warn("dropping push message without recipient")
		return
	}

	n, err := s.renderer.Render(ctx, msg)
	if err != nil {
		s.log.Error("push delivery failed",
			zap.String("recipient_id", msg.RecipientID),
			zap.String("channel", n.Channel.ID),
			zap.Error(err))
		return
	}
	s.log.Debug("push delivered",
		zap.String("recipient_id", msg.RecipientID),
		zap.String("channel", n.Channel.ID),
		zap.Int32("notification_id", n.ID))
}

func (s *Service) Close() error {
	return s.pubsubClient.Close()
}
