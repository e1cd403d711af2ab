package transport

import (
	"context"

	"github.com/open-rails/authbridge/core"
	"go.uber.org/zap"
)

// Session drives a login attempt through the host's embedded authenticated
// browser session. The host API blocks until a single terminal event; the
// three possible outcomes map directly onto the canonical result.
type Session struct {
	Opener SessionOpener
	Opts   core.Options
}

func (s *Session) Login(ctx context.Context, provider string, opts core.LoginOptions) core.Result {
	backendURL, callback := opts.Merge(s.Opts)
	if callback == "" {
		callback = s.Opener.ReturnURL()
	}
	authURL := core.BuildAuthURL(backendURL, provider, callback)

	ev, err := s.Opener.OpenAuthSession(ctx, authURL, callback)
	if err != nil {
		return core.Classify(err)
	}

	log := s.Opts.Log().With(zap.String("provider", provider))
	switch ev.Outcome {
	case SessionRedirect:
		log.Debug("session returned", zap.String("url", ev.URL))
		return core.ResultFromParams(core.ParseCallbackURL(ev.URL))
	case SessionDismissed:
		return core.Fail(core.KindRequestCanceled, "Sign-in was canceled")
	default:
		return core.Fail(core.KindAuthFailed, "Authentication failed")
	}
}
