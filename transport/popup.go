package transport

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/open-rails/authbridge/core"
	"go.uber.org/zap"
)

// Popup geometry. The window is centered on the caller's screen.
const (
	popupWidth  = 480
	popupHeight = 640
)

// DefaultCallbackPath is appended to the host origin when no callback
// address is configured.
const DefaultCallbackPath = "/auth/callback"

// Popup drives a login attempt through a popup window on a windowed-web
// host. Two watchers race toward one settlement: a message listener for the
// callback bridge page's postMessage, and a poller checking window liveness
// and location. A hard timeout bounds the whole attempt.
type Popup struct {
	Opener WindowOpener
	// Messages is optional; without it only the poll watcher runs.
	Messages MessageSource
	Opts     core.Options
}

func (p *Popup) Login(ctx context.Context, provider string, opts core.LoginOptions) core.Result {
	backendURL, callback := opts.Merge(p.Opts)
	if callback == "" {
		callback = strings.TrimRight(p.Opener.Origin(), "/") + DefaultCallbackPath
	}
	nonce := newNonce()
	authURL := core.BuildAuthURL(backendURL, provider, withNonce(callback, nonce))

	log := p.Opts.Log().With(zap.String("provider", provider))

	win := p.Opener.Open(authURL, center(p.Opener, popupWidth, popupHeight))
	if win == nil {
		log.Debug("popup blocked")
		return core.Fail(core.KindAuthFailed, "Popup was blocked. Please allow popups for this site and try again.")
	}

	settle := newSettlement()
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var closeOnce sync.Once
	closeWin := func() {
		closeOnce.Do(func() {
			if !win.Closed() {
				win.Close()
			}
		})
	}
	defer closeWin()

	var unsub func()
	if p.Messages != nil {
		var ch <-chan Message
		ch, unsub = p.Messages.Subscribe()
		defer unsub()
		go p.watchMessages(watchCtx, ch, callback, nonce, settle)
	}
	go p.watchWindow(watchCtx, win, settle)

	timer := time.NewTimer(p.Opts.Timeout())
	defer timer.Stop()

	select {
	case <-settle.Done():
	case <-timer.C:
		log.Debug("popup attempt timed out")
		settle.resolve(core.Fail(core.KindAuthFailed, "Authentication timed out"))
	case <-ctx.Done():
		settle.resolve(core.Classify(ctx.Err()))
	}
	return settle.result()
}

// watchMessages resolves on the first recognized message: right origin,
// matching nonce echo, and a payload carrying the redirect action marker.
// Anything else on the channel is ignored and watching continues.
func (p *Popup) watchMessages(ctx context.Context, ch <-chan Message, callback, nonce string, settle *settlement) {
	want := originOf(callback)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Params[core.ParamAction] == "" {
				continue
			}
			if originOf(msg.Origin) != want {
				continue
			}
			if msg.Nonce != "" && msg.Nonce != nonce {
				continue
			}
			settle.resolve(core.ResultFromParams(msg.Params))
			return
		}
	}
}

// watchWindow polls liveness and location. A closed window is a deliberate
// cancel. Location reads error while the provider's cross-origin pages are
// up; those are swallowed. Once the address is readable and carries the
// action marker, it is decoded and normalized.
func (p *Popup) watchWindow(ctx context.Context, win Window, settle *settlement) {
	tick := time.NewTicker(p.Opts.Poll())
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if win.Closed() {
				settle.resolve(core.Fail(core.KindRequestCanceled, "Sign-in window was closed"))
				return
			}
			loc, err := win.Location()
			if err != nil {
				continue
			}
			if !strings.Contains(loc, core.ParamAction+"=") {
				continue
			}
			settle.resolve(core.ResultFromParams(core.ParseCallbackURL(loc)))
			return
		}
	}
}

func center(o WindowOpener, w, h int) WindowFeatures {
	sw, sh := o.Screen()
	f := WindowFeatures{Width: w, Height: h}
	if sw > w {
		f.Left = (sw - w) / 2
	}
	if sh > h {
		f.Top = (sh - h) / 2
	}
	return f
}

// newNonce returns a compact URL-safe attempt nonce.
func newNonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base58.Encode(b)
}

func withNonce(callback, nonce string) string {
	sep := "?"
	if strings.Contains(callback, "?") {
		sep = "&"
	}
	return callback + sep + "nonce=" + nonce
}

// originOf reduces a URL to scheme://host for same-origin comparison.
func originOf(u string) string {
	rest := u
	scheme := ""
	if i := strings.Index(u, "://"); i >= 0 {
		scheme = u[:i+3]
		rest = u[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return scheme + rest
}
