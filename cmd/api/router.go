package api

import (
	"net/http"

	"agristock-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := delivery.NewAuthHandler(h.authUsecase)
	requireAuth := delivery.AuthMiddleware(h.authUsecase, h.registry)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Splash works signed out and routes to login
		api.GET("/splash", delivery.OptionalAuthMiddleware(h.authUsecase, h.registry), authHandler.Splash)

		// Lifecycle transitions reported by the app shell
		api.POST("/lifecycle", requireAuth, authHandler.ReportLifecycle)

		api.GET("/verification", requireAuth, authHandler.Verification)

		// Push token registration (protected)
		push := api.Group("/push")
		push.Use(requireAuth)
		{
			push.POST("/token", authHandler.RegisterFCMToken)
		}

		settings := api.Group("/settings")
		settings.Use(requireAuth)
		{
			settings.GET("/profile", authHandler.Profile)
			settings.POST("/sign-out", authHandler.SignOut)
		}

		posts := api.Group("/posts")
		posts.Use(requireAuth)
		{
			posts.PUT("/:id", h.postHandler.EditPost)
		}

		api.GET("/purchases", requireAuth, h.purchaseHandler.GetPurchases)

		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", h.notificationHandler.GetNotifications)
			notifications.POST("/read", h.notificationHandler.MarkAllRead)
		}
	}
}
