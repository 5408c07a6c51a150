package usecase

import (
	"context"

	"agristock-backend/internal/app"
	authdomain "agristock-backend/internal/auth/domain"
	"agristock-backend/internal/session"
)

// AuthUsecase defines the interface for session-facing screens: splash
// routing, verification status, profile, push registration and sign-out
type AuthUsecase interface {
	ValidateToken(ctx context.Context, idToken string) (session.Session, error)
	// Splash picks the first screen; s is nil when nobody is signed in
	Splash(ctx context.Context, s *session.Session) (authdomain.Destination, error)
	Verification(ctx context.Context, userID string) (authdomain.VerificationStatus, error)
	Profile(ctx context.Context, userID string) (*authdomain.User, error)
	// RegisterFCMToken saves the device token in the background of the
	// instance scope. It reports false when the save was not started.
	RegisterFCMToken(inst *app.Instance, token string) bool
	SignOut(ctx context.Context, userID string) error
}
