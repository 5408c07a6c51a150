package delivery

import (
	"net/http"

	authDelivery "agristock-backend/internal/auth/delivery"
	"agristock-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles the notifications screen
type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	feed                *usecase.MemoryFeed
}

// NewNotificationHandler creates a new handler. feed may be nil when the list has no backing store.
func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, feed *usecase.MemoryFeed) *NotificationHandler {
	return &NotificationHandler{notificationUsecase: notificationUsecase, feed: feed}
}

// GetNotifications returns the user's notification list
// GET /api/notifications?order=desc
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	s, _ := authDelivery.SessionFrom(c)

	feed, err := h.notificationUsecase.List(c.Request.Context(), s.UserID, c.Query("order") == "asc")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, feed)
}

// MarkAllRead clears the unread flag on the user's notifications
// POST /api/notifications/read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	s, _ := authDelivery.SessionFrom(c)

	updated := 0
	if h.feed != nil {
		updated = h.feed.MarkAllRead(s.UserID)
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
