package dto

import authdomain "agristock-backend/internal/auth/domain"

type RegisterFCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type SplashResponse struct {
	Destination authdomain.Destination `json:"destination"`
	UserID      string                 `json:"user_id,omitempty"`
}

type VerificationResponse struct {
	Status      authdomain.VerificationStatus `json:"status"`
	Destination authdomain.Destination        `json:"destination"`
}
