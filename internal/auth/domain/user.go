package domain

import "time"

// VerificationStatus is the seller verification state stored on the user document.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// ParseVerificationStatus maps a stored value to a status. Unknown or absent values are pending.
func ParseVerificationStatus(s string) VerificationStatus {
	switch v := VerificationStatus(s); v {
	case VerificationVerified, VerificationRejected:
		return v
	}
	return VerificationPending
}

// User is the profile view of a users/{uid} document.
type User struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email,omitempty"`
	DisplayName        string             `json:"display_name,omitempty"`
	PhoneNumber        string             `json:"phone_number,omitempty"`
	Online             bool               `json:"online"`
	LastSeen           time.Time          `json:"last_seen,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
}

// Destination is the screen the splash screen routes to.
type Destination string

const (
	DestinationLogin                Destination = "login"
	DestinationHome                 Destination = "home"
	DestinationVerificationPending  Destination = "verification_pending"
	DestinationVerificationRejected Destination = "verification_rejected"
)

// DestinationFor picks the post-splash screen for a signed-in user.
func DestinationFor(status VerificationStatus) Destination {
	switch status {
	case VerificationVerified:
		return DestinationHome
	case VerificationRejected:
		return DestinationVerificationRejected
	}
	return DestinationVerificationPending
}
