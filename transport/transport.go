// Package transport implements the three strategies for driving an
// authorization surface to a single canonical result: a popup window on
// windowed-web hosts, an embedded browser session on native hosts, and the
// native credential path where the host offers one.
//
// The window, message and session primitives are interfaces supplied by the
// embedding runtime; the transports own the orchestration, teardown and
// normalization around them.
package transport

import (
	"context"

	"github.com/open-rails/authbridge/core"
)

// Transport is one strategy for completing a login attempt. Implementations
// never panic out and never leak the surface they opened: every path through
// Login settles exactly one Result and releases every handle, timer and
// listener the attempt acquired.
type Transport interface {
	Login(ctx context.Context, provider string, opts core.LoginOptions) core.Result
}

// Window is an open popup handle.
type Window interface {
	// Closed reports whether the user (or anyone else) closed the window.
	Closed() bool
	// Location returns the window's current address. Cross-origin reads
	// error while the provider's own pages are loaded; callers swallow that
	// and keep polling.
	Location() (string, error)
	Close()
}

// WindowFeatures is the geometry for a new popup.
type WindowFeatures struct {
	Width, Height int
	Left, Top     int
}

// WindowOpener is the windowed-web host surface needed by the popup
// transport.
type WindowOpener interface {
	// Open opens a popup at url. A nil Window means the popup was blocked.
	Open(url string, features WindowFeatures) Window
	// Origin is the host's own origin, used to derive the default callback
	// address.
	Origin() string
	// Screen returns the available screen size for centering the popup.
	Screen() (width, height int)
}

// Message is one cross-frame message event as delivered to the opener.
type Message struct {
	Origin string
	Nonce  string
	Params map[string]string
}

// MessageSource delivers in-process message events. Subscribe returns a
// receive channel and an unsubscribe func releasing the registration.
type MessageSource interface {
	Subscribe() (<-chan Message, func())
}

// SessionOutcome is the terminal state of an embedded browser session.
type SessionOutcome int

const (
	// SessionRedirect means the session delivered a return URL.
	SessionRedirect SessionOutcome = iota
	// SessionDismissed means the user canceled or dismissed the session.
	SessionDismissed
	// SessionOther covers every other terminal state the host reports.
	SessionOther
)

// SessionEvent is the single terminal event an embedded session emits.
type SessionEvent struct {
	Outcome SessionOutcome
	URL     string
}

// SessionOpener is the native-host surface needed by the embedded-session
// transport. OpenAuthSession blocks until the session reaches a terminal
// state.
type SessionOpener interface {
	OpenAuthSession(ctx context.Context, authURL, returnURL string) (SessionEvent, error)
	// ReturnURL is the host's natural return address (typically an app
	// scheme URL), used when no callback override is configured.
	ReturnURL() string
}
