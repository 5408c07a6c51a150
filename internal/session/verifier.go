package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier turns a bearer ID token into a Session.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Session, error)
}

// FirebaseVerifier checks Firebase Authentication ID tokens.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (Session, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email, _ := token.Claims["email"].(string)
	return Session{UserID: token.UID, Email: email}, nil
}

// LocalVerifier accepts HS256 tokens signed with a shared secret. It stands in
// for Firebase Authentication during local development.
type LocalVerifier struct {
	secret []byte
}

type localClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret)}
}

func (v *LocalVerifier) Verify(ctx context.Context, idToken string) (Session, error) {
	claims := &localClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{UserID: claims.Subject, Email: claims.Email}, nil
}

// Issue signs a token LocalVerifier will accept.
func (v *LocalVerifier) Issue(userID, email string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := time.Now()
	claims := localClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
