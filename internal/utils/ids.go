package utils

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// NewHexID returns 32 random hex characters (used for request IDs).
func NewHexID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err == nil {
		return hex.EncodeToString(b)
	}
	// fallback (should be rare)
	return time.Now().UTC().Format("20060102T150405.000000000")
}
