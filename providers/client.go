package providers

import (
	"context"

	"github.com/open-rails/authbridge/appleid"
	"github.com/open-rails/authbridge/core"
	"github.com/open-rails/authbridge/platform"
	"github.com/open-rails/authbridge/transport"
)

// Config wires a Client to the embedding runtime. Host surfaces the runtime
// does not have stay nil and the corresponding transports are simply never
// selected.
type Config struct {
	Options core.Options
	// Host answers the capability probes. Nil degrades to web defaults.
	Host platform.Host
	// Windows/Messages back the popup transport on windowed-web hosts.
	Windows  transport.WindowOpener
	Messages transport.MessageSource
	// Sessions backs the embedded-session transport on native hosts.
	Sessions transport.SessionOpener
	// AppleRequester is the native Apple credential capability, when present.
	AppleRequester appleid.Requester
}

// Client owns the immutable process-wide options and one orchestrator per
// registered provider. Concurrent logins are independent; the Client itself
// holds no per-attempt state.
type Client struct {
	opts core.Options
	reg  *Registry
}

// New builds a Client with the three built-in providers registered.
func New(cfg Config) *Client {
	c := &Client{opts: cfg.Options, reg: NewRegistry()}

	var popup transport.Transport
	if cfg.Windows != nil {
		popup = &transport.Popup{Opener: cfg.Windows, Messages: cfg.Messages, Opts: cfg.Options}
	}
	var session transport.Transport
	if cfg.Sessions != nil {
		session = &transport.Session{Opener: cfg.Sessions, Opts: cfg.Options}
	}
	var native transport.Transport
	if cfg.AppleRequester != nil {
		native = &transport.Native{
			Requester: cfg.AppleRequester,
			Verifier:  &appleid.Verifier{Logger: cfg.Options.Logger},
			Inspector: &appleid.TokenInspector{},
			Opts:      cfg.Options,
		}
	}

	redirect := func(name string) *orchestrator {
		return &orchestrator{name: name, host: cfg.Host, popup: popup, session: session, opts: cfg.Options}
	}
	c.reg.Register(redirect(ProviderGoogle))
	c.reg.Register(redirect(ProviderFacebook))

	apple := redirect(ProviderApple)
	apple.native = native
	c.reg.Register(apple)
	return c
}

// Register adds a custom provider; future providers of the same shape plug
// in here without touching the dispatcher.
func (c *Client) Register(p Provider) { c.reg.Register(p) }

// GoogleLogin runs a Google sign-in attempt.
func (c *Client) GoogleLogin(ctx context.Context, opts core.LoginOptions) core.Result {
	return c.reg.Login(ctx, ProviderGoogle, opts)
}

// FacebookLogin runs a Facebook sign-in attempt.
func (c *Client) FacebookLogin(ctx context.Context, opts core.LoginOptions) core.Result {
	return c.reg.Login(ctx, ProviderFacebook, opts)
}

// AppleLogin runs an Apple sign-in attempt, using the native credential
// capability when the host supports it.
func (c *Client) AppleLogin(ctx context.Context, opts core.LoginOptions) core.Result {
	return c.reg.Login(ctx, ProviderApple, opts)
}

// Login is the legacy string-named entry point: case-insensitive dispatch,
// unknown_provider for names nothing is registered under.
func (c *Client) Login(ctx context.Context, provider string, opts core.LoginOptions) core.Result {
	return c.reg.Login(ctx, provider, opts)
}
