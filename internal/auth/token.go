package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenProvider supplies the bearer token sent with every backend call.
// The token itself is opaque to this client; only its expiry is inspected
// so a stale token can be reported before the backend rejects it.
type TokenProvider interface {
	Token() (string, error)
}

// StaticTokenProvider serves a fixed token from configuration.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a provider around a pre-issued token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// Token returns the configured token, or an error if it has an
// inspectable expiry that has already passed.
func (p *StaticTokenProvider) Token() (string, error) {
	if p.token == "" {
		return "", fmt.Errorf("no token configured")
	}
	if exp, ok := tokenExpiry(p.token); ok && time.Now().After(exp) {
		return "", fmt.Errorf("token expired at %s", exp.Format(time.RFC3339))
	}
	return p.token, nil
}

// RefreshingTokenProvider wraps a refresh function and caches the token
// until shortly before its expiry. Refresh happens lazily on demand, not
// in the middle of an operation already holding a token.
type RefreshingTokenProvider struct {
	mu      sync.Mutex
	refresh func() (string, error)
	token   string
	expiry  time.Time
}

// NewRefreshingTokenProvider creates a provider that calls refresh
// whenever the cached token is missing or about to expire.
func NewRefreshingTokenProvider(refresh func() (string, error)) *RefreshingTokenProvider {
	return &RefreshingTokenProvider{refresh: refresh}
}

// Token returns the cached token, refreshing it when needed.
func (p *RefreshingTokenProvider) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && (p.expiry.IsZero() || time.Until(p.expiry) > time.Minute) {
		return p.token, nil
	}

	token, err := p.refresh()
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	p.token = token
	if exp, ok := tokenExpiry(token); ok {
		p.expiry = exp
	} else {
		p.expiry = time.Time{}
	}

	return p.token, nil
}

// tokenExpiry extracts the exp claim without verifying the signature.
// Verification belongs to the backend; the client only wants to avoid
// sending a token it already knows is dead.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
