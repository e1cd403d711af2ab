package providers

import (
	"context"

	"github.com/open-rails/authbridge/core"
	"github.com/open-rails/authbridge/platform"
	"github.com/open-rails/authbridge/transport"
	"go.uber.org/zap"
)

// orchestrator selects a transport per the host's capabilities at call time
// and normalizes everything that escapes it. One orchestrator per provider;
// transports it cannot use are nil.
type orchestrator struct {
	name    string
	host    platform.Host
	popup   transport.Transport
	session transport.Transport
	native  transport.Transport
	opts    core.Options
}

func (o *orchestrator) Name() string { return o.name }

// Login dispatches: a windowed-web, non-embedded host uses the popup; a host
// supporting the provider's native credential uses it; everything else goes
// through the embedded session. The call never raises — panics and stray
// errors are classified into a failure Result at this boundary.
func (o *orchestrator) Login(ctx context.Context, opts core.LoginOptions) (res core.Result) {
	defer func() {
		if v := recover(); v != nil {
			o.opts.Log().Warn("login attempt panicked",
				zap.String("provider", o.name), zap.Any("value", v))
			res = core.ClassifyValue(v)
		}
	}()

	info := platform.Detect(o.host)
	switch {
	case info.IsWeb && !info.IsEmbedded && o.popup != nil:
		return o.popup.Login(ctx, o.name, opts)
	case o.native != nil && info.SupportsNativeCredential:
		return o.native.Login(ctx, o.name, opts)
	case o.session != nil:
		return o.session.Login(ctx, o.name, opts)
	case o.popup != nil:
		return o.popup.Login(ctx, o.name, opts)
	default:
		return core.Fail(core.KindProviderUnavailable, "No sign-in transport is available on this host")
	}
}
