package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabkeeper/internal/core/apperror"
)

type fakeProvider struct {
	profile *Profile
	err     error
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.example/consent?state=" + state
}

func (p *fakeProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

type fakeStore struct {
	sessions map[uuid.UUID]*Session
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[uuid.UUID]*Session)}
}

func (s *fakeStore) Save(ctx context.Context, session *Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeStore) Load(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, apperror.NewNotFound("session", id.String())
	}
	return session, nil
}

func (s *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.sessions, id)
	return nil
}

func (s *fakeStore) DeleteExpired(ctx context.Context) (int64, error) {
	var removed int64
	for id, session := range s.sessions {
		if session.Expired() {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func newTestService(provider IdentityProvider, store SessionStore) *Service {
	signer := NewStateSigner("test-secret", 10*time.Minute)
	return NewService(provider, store, signer, DefaultServiceConfig())
}

func TestStateSigner_RoundTrip(t *testing.T) {
	signer := NewStateSigner("secret", time.Minute)

	state, err := signer.Issue()
	require.NoError(t, err)
	assert.NoError(t, signer.Verify(state))
}

func TestStateSigner_RejectsForgedAndExpired(t *testing.T) {
	signer := NewStateSigner("secret", time.Minute)
	other := NewStateSigner("other-secret", time.Minute)

	state, err := other.Issue()
	require.NoError(t, err)
	assert.Error(t, signer.Verify(state), "state signed with a different secret must fail")

	expired := NewStateSigner("secret", -time.Minute)
	state, err = expired.Issue()
	require.NoError(t, err)
	assert.Error(t, signer.Verify(state), "expired state must fail")

	assert.Error(t, signer.Verify("not-a-token"))
}

func TestHandleCallback(t *testing.T) {
	profile := &Profile{SubjectID: "g-123", DisplayName: "Sam Waiter", Email: "sam@example.com"}
	store := newFakeStore()
	svc := newTestService(&fakeProvider{profile: profile}, store)

	state, err := svc.state.Issue()
	require.NoError(t, err)

	session, err := svc.HandleCallback(context.Background(), state, "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "g-123", session.SubjectID)
	assert.Equal(t, "sam@example.com", session.Email)
	assert.False(t, session.Expired())

	// The session is persisted and resolvable by id.
	resolved, err := svc.Resolve(context.Background(), session.ID.String())
	require.NoError(t, err)
	assert.Equal(t, session.ID, resolved.ID)
}

func TestHandleCallback_BadState(t *testing.T) {
	svc := newTestService(&fakeProvider{}, newFakeStore())

	_, err := svc.HandleCallback(context.Background(), "forged", "code")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestHandleCallback_ProviderFailure(t *testing.T) {
	svc := newTestService(&fakeProvider{err: errors.New("provider down")}, newFakeStore())

	state, err := svc.state.Issue()
	require.NoError(t, err)

	_, err = svc.HandleCallback(context.Background(), state, "code")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestResolve_ExpiredSession(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&fakeProvider{}, store)

	session := NewSession(&Profile{SubjectID: "g-1", Email: "a@b.c"}, -time.Minute)
	require.NoError(t, store.Save(context.Background(), session))

	_, err := svc.Resolve(context.Background(), session.ID.String())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

	// Expired record was removed lazily.
	assert.NotContains(t, store.sessions, session.ID)
}

func TestLogout(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&fakeProvider{}, store)

	session := NewSession(&Profile{SubjectID: "g-1"}, time.Hour)
	require.NoError(t, store.Save(context.Background(), session))

	require.NoError(t, svc.Logout(context.Background(), session.ID.String()))
	assert.NotContains(t, store.sessions, session.ID)

	assert.Error(t, svc.Logout(context.Background(), "not-a-uuid"))
}
