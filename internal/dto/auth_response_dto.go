package dto

import "time"

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// ForgotPasswordResponse returns the recovery token. Mail delivery is
// out of scope, so the token travels in the response body.
type ForgotPasswordResponse struct {
	ResetToken string `json:"resetToken"`
}
