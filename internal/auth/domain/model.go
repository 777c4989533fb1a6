package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("account is not an administrator")
)

// Principal is the authenticated caller attached to admin requests.
type Principal struct {
	Subject  string `json:"subject"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Principal Principal `json:"principal"`
}
