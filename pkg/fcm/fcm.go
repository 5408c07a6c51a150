package fcm

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// ErrTokenInvalid means the device token will never accept messages again and
// should be discarded. Payload errors do not produce it.
var ErrTokenInvalid = errors.New("device token is no longer valid")

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
	log             *zap.Logger
}

// NewClient wraps an initialized messaging client
func NewClient(messagingClient *messaging.Client, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		messagingClient: messagingClient,
		log:             log,
	}
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string
	// Android notification channel the device renders the notification on
	ChannelID string
	// Tag replaces an earlier notification with the same tag on the device
	Tag string
}

// BuildMessage converts NotificationData into an FCM message for one device
func BuildMessage(token string, notification NotificationData) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Title:     notification.Title,
				Body:      notification.Body,
				ChannelID: notification.ChannelID,
				Tag:       notification.Tag,
			},
		},
	}
}

// SendToDevice sends a push notification to a specific device token
func (c *Client) SendToDevice(ctx context.Context, token string, notification NotificationData) error {
	response, err := c.messagingClient.Send(ctx, BuildMessage(token, notification))
	if err != nil {
		if IsTokenInvalid(err) {
			return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	c.log.Debug("message sent", zap.String("message_id", response), zap.String("channel", notification.ChannelID))
	return nil
}

// IsTokenInvalid reports whether an error returned by the messaging client
// means the device token should be discarded. INVALID_ARGUMENT is not included:
// FCM also returns it for malformed payloads.
func IsTokenInvalid(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsSenderIDMismatch(err)
}
