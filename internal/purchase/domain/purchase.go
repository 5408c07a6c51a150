package domain

import (
	"fmt"
	"time"
)

// Tab is one page of the My Purchases screen.
type Tab string

const (
	TabOngoing   Tab = "ongoing"
	TabCompleted Tab = "completed"
)

func ParseTab(s string) (Tab, error) {
	switch t := Tab(s); t {
	case TabOngoing, TabCompleted:
		return t, nil
	case "":
		return TabOngoing, nil
	}
	return "", fmt.Errorf("unknown purchases tab %q", s)
}

// Purchase is an item the user bought, stored in the purchases collection.
type Purchase struct {
	ID        string    `json:"id"`
	BuyerID   string    `json:"buyer_id"`
	PostID    string    `json:"post_id"`
	Title     string    `json:"title"`
	Price     string    `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	Status    Tab       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
