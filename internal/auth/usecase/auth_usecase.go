package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agristock-backend/internal/app"
	authdomain "agristock-backend/internal/auth/domain"
	"agristock-backend/internal/auth/repository"
	"agristock-backend/internal/session"

	"go.uber.org/zap"
)

var ErrUserNotFound = errors.New("user not found")

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	verifier  session.Verifier
	userRepo  repository.UserRepository
	tokenRepo repository.FCMTokenRepository
	registry  *app.Registry
	log       *zap.Logger
	now       func() time.Time
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(verifier session.Verifier, userRepo repository.UserRepository, tokenRepo repository.FCMTokenRepository, registry *app.Registry, log *zap.Logger) AuthUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &authUsecase{
		verifier:  verifier,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		registry:  registry,
		log:       log,
		now:       time.Now,
	}
}

func (u *authUsecase) ValidateToken(ctx context.Context, idToken string) (session.Session, error) {
	if strings.TrimSpace(idToken) == "" {
		return session.Session{}, session.ErrInvalidToken
	}
	return u.verifier.Verify(ctx, idToken)
}

func (u *authUsecase) Splash(ctx context.Context, s *session.Session) (authdomain.Destination, error) {
	if s == nil {
		return authdomain.DestinationLogin, nil
	}
	status, err := u.Verification(ctx, s.UserID)
	if err != nil {
		return "", err
	}
	return authdomain.DestinationFor(status), nil
}

func (u *authUsecase) Verification(ctx context.Context, userID string) (authdomain.VerificationStatus, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}
	if user == nil {
		return authdomain.VerificationPending, nil
	}
	return user.VerificationStatus, nil
}

func (u *authUsecase) Profile(ctx context.Context, userID string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (u *authUsecase) RegisterFCMToken(inst *app.Instance, token string) bool {
	s, ok := inst.Session.Current()
	if !ok {
		u.log.Debug("no session, skipping FCM token save")
		return false
	}

	at := u.now()
	return inst.Scope.Go(func(ctx context.Context) error {
		return u.tokenRepo.SaveToken(ctx, s.UserID, token, at)
	}, func(err error) {
		if err != nil {
			u.log.Warn("failed to save FCM token", zap.String("user_id", s.UserID), zap.Error(err))
			return
		}
		u.log.Debug("FCM token saved", zap.String("user_id", s.UserID))
	})
}

func (u *authUsecase) SignOut(ctx context.Context, userID string) error {
	if !u.registry.Close(ctx, userID) {
		return session.ErrNoSession
	}
	return nil
}
