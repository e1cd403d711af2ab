package transport

import (
	"context"
	"errors"

	"github.com/open-rails/authbridge/appleid"
	"github.com/open-rails/authbridge/core"
	"go.uber.org/zap"
)

// Native completes a login through the host's native credential capability,
// bypassing the redirect handshake entirely. Backend verification is
// best-effort: when the verify call fails for any reason the locally
// obtained credential fields are used as-is rather than failing the attempt.
type Native struct {
	Requester appleid.Requester
	// Verifier is optional; without it (or without a backend URL) the local
	// credential is the final answer.
	Verifier *appleid.Verifier
	// Inspector is optional; when present it recovers email claims from the
	// identity token on repeat grants, where Apple omits the profile fields.
	Inspector *appleid.TokenInspector
	Opts      core.Options
}

func (n *Native) Login(ctx context.Context, provider string, opts core.LoginOptions) core.Result {
	log := n.Opts.Log().With(zap.String("provider", provider))

	if n.Requester == nil {
		return core.Fail(core.KindProviderUnavailable, "Native sign-in is not available on this device")
	}
	ok, err := n.Requester.Available(ctx)
	if err != nil || !ok {
		return core.Fail(core.KindProviderUnavailable, "Native sign-in is not available on this device")
	}

	cred, err := n.Requester.Request(ctx, []string{appleid.ScopeFullName, appleid.ScopeEmail})
	if err != nil {
		if errors.Is(err, appleid.ErrCanceled) {
			return core.Fail(core.KindRequestCanceled, "Sign-in was canceled")
		}
		if errors.Is(err, appleid.ErrUnavailable) {
			return core.Fail(core.KindProviderUnavailable, "Native sign-in is not available on this device")
		}
		return core.Classify(err)
	}
	if cred == nil || cred.UserID == "" {
		return core.Fail(core.KindAuthFailed, "Native credential missing user identifier")
	}

	backendURL, _ := opts.Merge(n.Opts)
	if cred.IdentityToken != "" && n.Verifier != nil && backendURL != "" {
		v := *n.Verifier
		v.BackendURL = backendURL
		if u, err := v.Verify(ctx, cred); err == nil && u.ID != "" {
			return core.Succeed(u)
		} else if err != nil {
			log.Debug("backend verification failed, using local credential", zap.Error(err))
		}
	}

	u := core.User{ID: cred.UserID, Email: cred.Email, Name: cred.FullName()}
	if u.Email == "" && cred.IdentityToken != "" && n.Inspector != nil {
		if claims, err := n.Inspector.Inspect(ctx, cred.IdentityToken); err == nil {
			u.Email = claims.Email
		}
	}
	// Apple omits email on every grant after the first. The subject ID alone
	// still identifies the account, so this stays a success with an empty
	// email rather than a failure.
	return core.Succeed(u)
}
