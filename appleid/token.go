package appleid

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// AppleKeySetURL is Apple's published JWKS endpoint.
const AppleKeySetURL = "https://appleid.apple.com/auth/keys"

// Claims are the identity-token fields this layer cares about.
type Claims struct {
	Subject string
	Email   string
	// Verified is true only when the token signature checked out against the
	// key set; claims from an insecure parse carry Verified=false.
	Verified bool
}

// TokenInspector extracts subject and email claims from an Apple identity
// token. It verifies the signature against a cached copy of Apple's JWKS
// when the key set is reachable, and degrades to unverified claim extraction
// when it is not — the backend remains the authority either way, this is a
// local fallback for offline enrichment.
type TokenInspector struct {
	// KeySetURL overrides AppleKeySetURL (tests point it at a fixture server).
	KeySetURL string

	once   sync.Once
	cache  *jwk.Cache
	regErr error
}

func (i *TokenInspector) url() string {
	if i.KeySetURL != "" {
		return i.KeySetURL
	}
	return AppleKeySetURL
}

func (i *TokenInspector) keySet(ctx context.Context) (jwk.Set, error) {
	i.once.Do(func() {
		i.cache = jwk.NewCache(context.Background())
		i.regErr = i.cache.Register(i.url(), jwk.WithMinRefreshInterval(15*time.Minute))
	})
	if i.regErr != nil {
		return nil, i.regErr
	}
	return i.cache.Get(ctx, i.url())
}

// Inspect parses the raw identity token. A reachable key set yields verified
// claims; an unreachable one yields best-effort unverified claims. A token
// that is malformed either way is an error.
func (i *TokenInspector) Inspect(ctx context.Context, raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, fmt.Errorf("empty identity token")
	}
	if set, err := i.keySet(ctx); err == nil {
		tok, err := jwt.Parse([]byte(raw), jwt.WithKeySet(set), jwt.WithValidate(true), jwt.WithContext(ctx))
		if err != nil {
			return Claims{}, fmt.Errorf("invalid identity token: %w", err)
		}
		return claimsFrom(tok, true), nil
	}
	tok, err := jwt.ParseInsecure([]byte(raw))
	if err != nil {
		return Claims{}, fmt.Errorf("invalid identity token: %w", err)
	}
	return claimsFrom(tok, false), nil
}

func claimsFrom(tok jwt.Token, verified bool) Claims {
	c := Claims{Subject: tok.Subject(), Verified: verified}
	if v, ok := tok.Get("email"); ok {
		if s, ok := v.(string); ok {
			c.Email = s
		}
	}
	return c
}
