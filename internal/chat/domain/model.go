package domain

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound  = errors.New("chat session not found")
	ErrValidation       = errors.New("invalid chat request")
	ErrUpstream         = errors.New("chat model request failed")
	ErrEmptyReply       = errors.New("chat model returned an empty reply")
	ErrStoreUnavailable = errors.New("chat session store unavailable")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one message in a chat session.
type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Reply is returned from a chat exchange.
type Reply struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}
