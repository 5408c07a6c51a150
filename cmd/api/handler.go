package api

import (
	"net/http"

	"agristock-backend/internal/app"
	authUsecase "agristock-backend/internal/auth/usecase"
	notificationDelivery "agristock-backend/internal/notification/delivery"
	notificationUsecase "agristock-backend/internal/notification/usecase"
	postDelivery "agristock-backend/internal/post/delivery"
	postUsecase "agristock-backend/internal/post/usecase"
	purchaseDelivery "agristock-backend/internal/purchase/delivery"
	purchaseUsecase "agristock-backend/internal/purchase/usecase"
	"agristock-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Handler struct {
	authUsecase         authUsecase.AuthUsecase
	registry            *app.Registry
	gatherer            prometheus.Gatherer
	postHandler         *postDelivery.PostHandler
	purchaseHandler     *purchaseDelivery.PurchaseHandler
	notificationHandler *notificationDelivery.NotificationHandler
	config              *config.Config
}

// Usecases groups the screen usecases served over HTTP.
type Usecases struct {
	Auth         authUsecase.AuthUsecase
	Post         postUsecase.PostUsecase
	Purchase     purchaseUsecase.PurchaseUsecase
	Notification notificationUsecase.NotificationUsecase
	// Feed backs the mark-as-read action; nil disables it.
	Feed *notificationUsecase.MemoryFeed
}

func NewHandler(uc Usecases, registry *app.Registry, gatherer prometheus.Gatherer, cfg *config.Config) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		authUsecase:         uc.Auth,
		registry:            registry,
		gatherer:            gatherer,
		postHandler:         postDelivery.NewPostHandler(uc.Post, cfg.MaxImageBytes),
		purchaseHandler:     purchaseDelivery.NewPurchaseHandler(uc.Purchase),
		notificationHandler: notificationDelivery.NewNotificationHandler(uc.Notification, uc.Feed),
		config:              cfg,
	}
}

// Router builds the gin engine with CORS and every route registered.
func (h *Handler) Router() *gin.Engine {
	if h.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)
	return r
}

// Server returns an http.Server for addr; the caller owns Shutdown.
func (h *Handler) Server(addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}
}
