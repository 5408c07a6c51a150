package domain

import "time"

// FCMToken is the push registration of a user's device, merged into users/{uid}
type FCMToken struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"` // Don't expose token in JSON
	UpdatedAt time.Time `json:"updated_at"`
}
