package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// IdentityProvider abstracts the OAuth handshake with the identity provider.
type IdentityProvider interface {
	// AuthCodeURL returns the provider's consent page URL carrying state.
	AuthCodeURL(state string) string

	// FetchProfile exchanges the authorization code and fetches the user record.
	FetchProfile(ctx context.Context, code string) (*Profile, error)
}

// GoogleConfig holds Google OAuth client configuration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURL is this service's callback endpoint.
	RedirectURL string
}

// GoogleProvider implements IdentityProvider against Google OAuth 2.0.
type GoogleProvider struct {
	oauth *oauth2.Config
}

// Ensure compile-time interface compliance.
var _ IdentityProvider = (*GoogleProvider)(nil)

// NewGoogleProvider creates a Google identity provider.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL implements IdentityProvider.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// FetchProfile implements IdentityProvider.
func (p *GoogleProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	client := p.oauth.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	return &Profile{
		SubjectID:   payload.ID,
		DisplayName: payload.Name,
		Email:       payload.Email,
	}, nil
}

// --- OAuth state parameter ---

// StateSigner issues and verifies the CSRF state parameter as a short-lived
// signed token, so no server-side state storage is needed between the
// redirect and the callback.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewStateSigner creates a state signer. TTL bounds how long a consent page
// redirect stays valid.
func NewStateSigner(secret string, ttl time.Duration) *StateSigner {
	return &StateSigner{secret: []byte(secret), ttl: ttl}
}

type stateClaims struct {
	jwt.RegisteredClaims
	Nonce string `json:"nonce"`
}

// Issue returns a fresh signed state value.
func (s *StateSigner) Issue() (string, error) {
	now := time.Now()
	claims := stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Nonce: uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a state value from the callback.
func (s *StateSigner) Verify(state string) error {
	token, err := jwt.ParseWithClaims(state, &stateClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("parse state: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid state token")
	}
	return nil
}
