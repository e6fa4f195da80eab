// Package session persists interactive resolver state between runs.
//
// When the interactive mode exits, the last manufacturer and device
// selection is saved so the next invocation can offer to resume where
// the user left off. Sessions are short-lived JSON files under
// ~/.config/zwconf/sessions/.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// DefaultTTL is how long a saved selection stays resumable.
const DefaultTTL = 24 * time.Hour

// Session records one interactive selection.
type Session struct {
	ID             string    `json:"id"`
	ManufacturerID string    `json:"manufacturer_id"`
	DeviceFile     string    `json:"device_file"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// New creates a session for the given selection.
func New(manufacturerID, deviceFile string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.NewString(),
		ManufacturerID: manufacturerID,
		DeviceFile:     deviceFile,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}
}
