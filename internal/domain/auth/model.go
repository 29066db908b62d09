// Package auth provides staff authentication via a third-party identity
// provider and server-side session records.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is the user record produced by the identity provider handshake.
type Profile struct {
	// SubjectID is the provider's stable user id.
	SubjectID   string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Session is an explicit server-side session record keyed by session id.
// The id is the only thing the client holds (in an HTTP-only cookie);
// everything else lives in the store.
type Session struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SubjectID   string    `db:"subject_id" json:"subjectId"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Email       string    `db:"email" json:"email"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt   time.Time `db:"expires_at" json:"expiresAt"`
}

// NewSession creates a session for an authenticated profile.
func NewSession(profile *Profile, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.New(),
		SubjectID:   profile.SubjectID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionStore defines explicit load/save persistence for sessions.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes expired sessions and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
