package usecase

import (
	"time"

	"agristock-backend/internal/notification/domain"
)

// ChannelFor maps a push data type to its local channel. Unknown and missing
// types fall back to Alerts.
func ChannelFor(pushType string) domain.Channel {
	switch pushType {
	case "message":
		return domain.ChannelMessages
	case "bid":
		return domain.ChannelBids
	default:
		return domain.ChannelAlerts
	}
}

// Route turns push data into a local notification. The id is the current
// time in milliseconds truncated to 32 bits.
func Route(data map[string]string, now time.Time) domain.LocalNotification {
	return domain.LocalNotification{
		ID:      int32(now.UnixMilli()),
		Channel: ChannelFor(data[domain.DataType]),
		Title:   data[domain.DataTitle],
		Body:    data[domain.DataBody],
		Data:    data,
	}
}
