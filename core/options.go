package core

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// Compiled defaults. Options fields left at their zero value fall back to
// these at the point of use, so a zero Options is valid.
const (
	DefaultPopupTimeout = 5 * time.Minute
	DefaultPollInterval = 500 * time.Millisecond
)

// Options is the process-wide configuration injected into orchestrators at
// construction. It is read-only after construction; per-call overrides go
// through LoginOptions instead.
type Options struct {
	// BackendURL is the authorization backend origin, e.g.
	// "https://auth.example.com". Required for every redirect-based flow.
	BackendURL string `env:"AUTHBRIDGE_BACKEND_URL"`
	// CallbackURL is the return address the backend redirects to. When empty
	// the host's natural return address (window origin) is used on web hosts.
	CallbackURL string `env:"AUTHBRIDGE_CALLBACK_URL"`
	// PopupTimeout bounds a whole popup attempt. Zero means DefaultPopupTimeout.
	PopupTimeout time.Duration `env:"AUTHBRIDGE_POPUP_TIMEOUT"`
	// PollInterval is the popup liveness/location poll cadence. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration `env:"AUTHBRIDGE_POLL_INTERVAL"`

	// Logger receives transport-level debug logs. Nil means silent.
	Logger *zap.Logger `env:"-"`
}

// OptionsFromEnv reads Options from AUTHBRIDGE_* environment variables.
// Unset variables leave the zero value, which defers to compiled defaults.
func OptionsFromEnv() (Options, error) {
	var o Options
	if err := env.Parse(&o); err != nil {
		return Options{}, err
	}
	o.BackendURL = strings.TrimRight(strings.TrimSpace(o.BackendURL), "/")
	return o, nil
}

// Timeout returns the effective popup timeout.
func (o Options) Timeout() time.Duration {
	if o.PopupTimeout > 0 {
		return o.PopupTimeout
	}
	return DefaultPopupTimeout
}

// Poll returns the effective poll interval.
func (o Options) Poll() time.Duration {
	if o.PollInterval > 0 {
		return o.PollInterval
	}
	return DefaultPollInterval
}

// Log returns the configured logger, or a nop logger when none is set.
func (o Options) Log() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// LoginOptions are per-call overrides for a single login attempt. Absent
// fields defer to the process-wide Options.
type LoginOptions struct {
	BackendURL  string
	CallbackURL string
}

// Merge resolves the effective backend and callback addresses for one call.
func (l LoginOptions) Merge(o Options) (backend, callback string) {
	backend = o.BackendURL
	if l.BackendURL != "" {
		backend = l.BackendURL
	}
	callback = o.CallbackURL
	if l.CallbackURL != "" {
		callback = l.CallbackURL
	}
	return strings.TrimRight(backend, "/"), callback
}
