package session

import (
	"errors"
	"time"
)

var (
	// ErrSessionNotFound is returned when a session doesn't exist
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session has expired
	ErrSessionExpired = errors.New("session expired")
)

// MaxHistory is the bound on retained conversation turns. Older turns are
// dropped; only the most recent MaxHistory survive.
const MaxHistory = 10

// Session represents one conversation with context continuity.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
	History   []Turn    `json:"history"`
}

// Turn is a single message in the session history.
type Turn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// RecentHistory returns up to count most-recent turns.
func (s *Session) RecentHistory(count int) []Turn {
	if len(s.History) <= count {
		return s.History
	}
	return s.History[len(s.History)-count:]
}
