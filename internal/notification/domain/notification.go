package domain

import "time"

// Channel is the local notification channel a push is rendered on.
type Channel struct {
	ID   string
	Name string
}

var (
	ChannelMessages = Channel{ID: "messages", Name: "Messages"}
	ChannelBids     = Channel{ID: "bids", Name: "Bids"}
	ChannelAlerts   = Channel{ID: "alerts", Name: "Alerts"}
)

// Push data keys
const (
	DataType  = "type"
	DataTitle = "title"
	DataBody  = "body"
)

// LocalNotification is a routed push ready to be shown on the device.
type LocalNotification struct {
	ID      int32
	Channel Channel
	Title   string
	Body    string
	Data    map[string]string
}

// InboundMessage is the JSON payload delivered on the push subscription.
type InboundMessage struct {
	RecipientID string            `json:"recipientId"`
	Data        map[string]string `json:"data"`
}

// Item is one row of the notifications screen.
type Item struct {
	Name         string `json:"name"`
	ActivityType string `json:"activity_type"`
	TimeAgo      string `json:"time_ago"`
	IsUnread     bool   `json:"is_unread"`
}

// Entry is a held feed entry; TimeAgo is derived from ReceivedAt when listed.
type Entry struct {
	Name         string
	ActivityType string
	ReceivedAt   time.Time
	Read         bool
}
