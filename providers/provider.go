// Package providers exposes one login entry point per identity provider and
// the registry that dispatches the legacy string-named entry point.
package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/open-rails/authbridge/core"
)

// Built-in provider slugs.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
	ProviderApple    = "apple"
)

// Provider is one identity provider's orchestrated login entry point. Login
// never panics and always returns a canonical Result.
type Provider interface {
	Name() string
	Login(ctx context.Context, opts core.LoginOptions) core.Result
}

// Registry maps provider slugs to implementations. Adding a provider means
// registering one implementation; the dispatcher never changes. Safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Provider)}
}

// Register adds or replaces a provider under its lower-cased name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[strings.ToLower(p.Name())] = p
}

// Lookup finds a provider by case-insensitive name.
func (r *Registry) Lookup(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Login dispatches by provider name. Unrecognized names resolve to an
// unknown_provider failure rather than an error.
func (r *Registry) Login(ctx context.Context, name string, opts core.LoginOptions) core.Result {
	p, ok := r.Lookup(name)
	if !ok {
		return core.Fail(core.KindUnknownProvider, fmt.Sprintf("Unknown provider %q", name))
	}
	return p.Login(ctx, opts)
}
