package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tabkeeper/internal/core/apperror"
	"tabkeeper/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	SessionTTL time.Duration
	StateTTL   time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		SessionTTL: 12 * time.Hour,
		StateTTL:   10 * time.Minute,
	}
}

// Service drives the identity provider handshake and session lifecycle.
type Service struct {
	provider IdentityProvider
	store    SessionStore
	state    *StateSigner
	config   ServiceConfig
}

// NewService creates a new auth service.
func NewService(provider IdentityProvider, store SessionStore, state *StateSigner, config ServiceConfig) *Service {
	return &Service{
		provider: provider,
		store:    store,
		state:    state,
		config:   config,
	}
}

// LoginURL returns the provider consent page URL with a fresh signed state.
func (s *Service) LoginURL() (string, error) {
	state, err := s.state.Issue()
	if err != nil {
		return "", apperror.NewInternal(err)
	}
	return s.provider.AuthCodeURL(state), nil
}

// HandleCallback completes the handshake: verifies state, exchanges the code
// for a profile, and saves a fresh session record.
func (s *Service) HandleCallback(ctx context.Context, state, code string) (*Session, error) {
	if err := s.state.Verify(state); err != nil {
		return nil, apperror.NewUnauthorized("invalid or expired state").WithCause(err)
	}
	if code == "" {
		return nil, apperror.NewUnauthorized("missing authorization code")
	}

	profile, err := s.provider.FetchProfile(ctx, code)
	if err != nil {
		return nil, apperror.NewUnauthorized("identity provider handshake failed").WithCause(err)
	}

	session := NewSession(profile, s.config.SessionTTL)
	if err := s.store.Save(ctx, session); err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "staff signed in",
		"email", session.Email,
		"session_id", session.ID)

	return session, nil
}

// Resolve loads the session for a cookie value, rejecting unknown ids and
// expired records.
func (s *Service) Resolve(ctx context.Context, sessionID string) (*Session, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid session")
	}

	session, err := s.store.Load(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("unknown session")
		}
		return nil, err
	}

	if session.Expired() {
		// Lazy cleanup; the sweeper handles the rest.
		_ = s.store.Delete(ctx, id)
		return nil, apperror.NewUnauthorized("session expired")
	}

	return session, nil
}

// Logout deletes the session record.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return apperror.NewUnauthorized("invalid session")
	}
	return s.store.Delete(ctx, id)
}

// SweepExpired removes expired session rows. Intended for a periodic
// background ticker.
func (s *Service) SweepExpired(ctx context.Context) {
	removed, err := s.store.DeleteExpired(ctx)
	if err != nil {
		logger.Warn(ctx, "session sweep failed", "error", err)
		return
	}
	if removed > 0 {
		logger.Debug(ctx, "expired sessions removed", "count", removed)
	}
}
