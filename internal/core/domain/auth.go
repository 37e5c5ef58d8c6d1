package domain

// GoogleUserInfo carries the identity claims extracted from a verified
// Google ID token.
type GoogleUserInfo struct {
	GoogleID string
	Email    string
	Name     string
}
