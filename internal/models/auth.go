package models

import "time"

// TokenRequest is the request body for issuing an API token
type TokenRequest struct {
	Owner    string `json:"owner"`
	Password string `json:"password"`
}

// TokenResponse is returned with a freshly issued token
type TokenResponse struct {
	Token     string    `json:"token"`
	Owner     string    `json:"owner"`
	ExpiresAt time.Time `json:"expires_at"`
}
