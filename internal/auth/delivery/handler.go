package delivery

import (
	"errors"
	"net/http"

	authdomain "agristock-backend/internal/auth/domain"
	authdto "agristock-backend/internal/auth/dto"
	"agristock-backend/internal/auth/usecase"
	"agristock-backend/internal/lifecycle"
	"agristock-backend/internal/session"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles session-facing screen requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Splash returns the first screen to show
// GET /api/splash
func (h *AuthHandler) Splash(c *gin.Context) {
	var sp *session.Session
	if s, ok := SessionFrom(c); ok {
		sp = &s
	}

	dest, err := h.authUsecase.Splash(c.Request.Context(), sp)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := authdto.SplashResponse{Destination: dest}
	if sp != nil {
		resp.UserID = sp.UserID
	}
	c.JSON(http.StatusOK, resp)
}

// Verification returns the seller verification status
// GET /api/verification
func (h *AuthHandler) Verification(c *gin.Context) {
	s, _ := SessionFrom(c)

	status, err := h.authUsecase.Verification(c.Request.Context(), s.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, authdto.VerificationResponse{
		Status:      status,
		Destination: authdomain.DestinationFor(status),
	})
}

// Profile returns the signed-in user's profile
// GET /api/settings/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	s, _ := SessionFrom(c)

	user, err := h.authUsecase.Profile(c.Request.Context(), s.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user.Email == "" {
		user.Email = s.Email
	}

	c.JSON(http.StatusOK, user)
}

// RegisterFCMToken saves the device push token in the background
// POST /api/push/token
func (h *AuthHandler) RegisterFCMToken(c *gin.Context) {
	var req authdto.RegisterFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, ok := InstanceFrom(c)
	if !ok || !h.authUsecase.RegisterFCMToken(inst, req.Token) {
		c.JSON(http.StatusConflict, gin.H{"error": "no active session"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "token registration accepted"})
}

// ReportLifecycle publishes a lifecycle transition to the caller's app instance
// POST /api/lifecycle
func (h *AuthHandler) ReportLifecycle(c *gin.Context) {
	var req struct {
		Event string `json:"event" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := lifecycle.Parse(req.Event)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inst, ok := InstanceFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}

	// Presence writes are best-effort; failures are logged by the bus.
	inst.Publish(c.Request.Context(), event)
	c.JSON(http.StatusOK, gin.H{
		"event": event,
		"state": inst.Presence.State().String(),
	})
}

// SignOut ends the caller's app instance
// POST /api/settings/sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	s, _ := SessionFrom(c)

	if err := h.authUsecase.SignOut(c.Request.Context(), s.UserID); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			c.JSON(http.StatusOK, gin.H{"message": "already signed out"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
