package contact

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("message not found")
	ErrStoreUnavailable = errors.New("message store unavailable")
)

// Message is a contact form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitInput is the public form payload. Validation happens at binding.
type SubmitInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=254"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}
