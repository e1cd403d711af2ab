// In-process integration tests: the popup transport driving a real redirect
// handshake against the devserver, with a fake browser window that follows
// the authorize→grant→callback redirect chain the way a popup would.
package testing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/open-rails/authbridge/appleid"
	"github.com/open-rails/authbridge/core"
	"github.com/open-rails/authbridge/devserver"
	"github.com/open-rails/authbridge/providers"
	memorystore "github.com/open-rails/authbridge/storage/memory"
	"github.com/open-rails/authbridge/transport"
)

// browserWindow simulates a popup: opening it issues the real HTTP requests
// a browser would, following redirects while they stay on the backend origin
// and stopping at the first hop off it — the callback address. Until that
// hop the window's location is cross-origin and unreadable, exactly like a
// provider page mid-flow.
type browserWindow struct {
	mu     sync.Mutex
	final  string
	closed bool
}

func (w *browserWindow) navigate(t *testing.T, startURL, backendHost string) {
	t.Helper()
	cli := &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if req.URL.Host != backendHost {
				w.mu.Lock()
				w.final = req.URL.String()
				w.mu.Unlock()
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	resp, err := cli.Get(startURL)
	if err == nil {
		resp.Body.Close()
	}
}

func (w *browserWindow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *browserWindow) Location() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.final == "" {
		return "", &crossOriginError{}
	}
	return w.final, nil
}

func (w *browserWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

type crossOriginError struct{}

func (*crossOriginError) Error() string { return "cross-origin frame" }

type browserOpener struct {
	t           *testing.T
	backendHost string
	win         *browserWindow
}

func (o *browserOpener) Open(u string, f transport.WindowFeatures) transport.Window {
	go o.win.navigate(o.t, u, o.backendHost)
	return o.win
}

func (o *browserOpener) Origin() string     { return "https://app.example.com" }
func (o *browserOpener) Screen() (int, int) { return 1920, 1080 }

func startBackend(t *testing.T, cfg devserver.Config) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(devserver.New(cfg, memorystore.New(), nil).Handler())
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return srv, u.Host
}

func TestPopupFlow_EndToEndSuccess(t *testing.T) {
	srv, host := startBackend(t, devserver.Config{
		AutoGrant: true,
		UserID:    "dev-user-1",
		UserEmail: "dev@example.com",
		UserName:  "Dev User",
	})

	win := &browserWindow{}
	p := &transport.Popup{
		Opener: &browserOpener{t: t, backendHost: host, win: win},
		Opts: core.Options{
			BackendURL:   srv.URL,
			PollInterval: 5 * time.Millisecond,
			PopupTimeout: 5 * time.Second,
		},
	}

	got := p.Login(context.Background(), "google", core.LoginOptions{})
	require.True(t, got.Succeeded(), "result: %+v", got)
	require.Equal(t, "google:dev-user-1", got.User.ID)
	require.Equal(t, "dev@example.com", got.User.Email)
	require.Equal(t, "Dev User", got.User.Name)
	require.True(t, win.Closed(), "popup must be closed after settlement")
}

func TestPopupFlow_EndToEndDenied(t *testing.T) {
	srv, host := startBackend(t, devserver.Config{AutoGrant: false})

	// Walk the consent hop the way a user denying would: authorize, then
	// follow the deny link. The popup only ever sees the final callback URL.
	cli := &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := cli.Get(core.BuildAuthURL(srv.URL, "google", "https://app.example.com/auth/callback"))
	require.NoError(t, err)
	resp.Body.Close()
	hs := strings.TrimPrefix(resp.Header.Get("Location"), "/consent?hs=")

	win := &browserWindow{}
	p := &transport.Popup{
		Opener: &browserOpener{t: t, backendHost: host, win: win},
		Opts: core.Options{
			BackendURL:   srv.URL + "/grant?hs=" + hs + "&approve=0&ignored=",
			PollInterval: 5 * time.Millisecond,
			PopupTimeout: 5 * time.Second,
		},
	}
	got := p.Login(context.Background(), "google", core.LoginOptions{})
	require.False(t, got.Succeeded())
	require.Equal(t, "Access denied", got.Error)
}

func TestClientFlow_WebHostPopupDispatch(t *testing.T) {
	srv, host := startBackend(t, devserver.Config{AutoGrant: true, UserID: "u1", UserEmail: "u1@example.com"})

	win := &browserWindow{}
	c := providers.New(providers.Config{
		Options: core.Options{
			BackendURL:   srv.URL,
			PollInterval: 5 * time.Millisecond,
			PopupTimeout: 5 * time.Second,
		},
		Host:    webHost{},
		Windows: &browserOpener{t: t, backendHost: host, win: win},
	})

	got := c.FacebookLogin(context.Background(), core.LoginOptions{})
	require.True(t, got.Succeeded(), "result: %+v", got)
	require.Equal(t, "facebook:u1", got.User.ID)
}

type webHost struct{}

func (webHost) OS() string                { return "web" }
func (webHost) Windowed() bool            { return true }
func (webHost) Embedded() bool            { return false }
func (webHost) HasCredential(string) bool { return false }

func TestNativeFlow_VerifyAgainstDevserver(t *testing.T) {
	srv, _ := startBackend(t, devserver.Config{UserPhoto: "https://p/dev.png"})

	n := &transport.Native{
		Requester: staticRequester{cred: &appleid.Credential{
			UserID:            "apple-sub-1",
			Email:             "first@x.com",
			GivenName:         "First",
			FamilyName:        "Grant",
			IdentityToken:     "opaque-dev-token",
			AuthorizationCode: "code",
		}},
		Verifier: &appleid.Verifier{},
		Opts:     core.Options{BackendURL: srv.URL},
	}
	got := n.Login(context.Background(), "apple", core.LoginOptions{})
	require.True(t, got.Succeeded(), "result: %+v", got)
	require.Equal(t, "apple:apple-sub-1", got.User.ID)
	require.Equal(t, "https://p/dev.png", got.User.Photo)
}

type staticRequester struct {
	cred *appleid.Credential
}

func (s staticRequester) Available(ctx context.Context) (bool, error) { return true, nil }
func (s staticRequester) Request(ctx context.Context, scopes []string) (*appleid.Credential, error) {
	return s.cred, nil
}
