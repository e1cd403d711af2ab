package transport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/open-rails/authbridge/core"
)

type fakeSessionOpener struct {
	event     SessionEvent
	err       error
	returnURL string

	gotAuthURL   string
	gotReturnURL string
}

func (f *fakeSessionOpener) OpenAuthSession(ctx context.Context, authURL, returnURL string) (SessionEvent, error) {
	f.gotAuthURL, f.gotReturnURL = authURL, returnURL
	return f.event, f.err
}

func (f *fakeSessionOpener) ReturnURL() string { return f.returnURL }

func sessionOpts() core.Options {
	return core.Options{BackendURL: "https://auth.example.com"}
}

func TestSession_RedirectSuccess(t *testing.T) {
	op := &fakeSessionOpener{
		returnURL: "myapp://auth",
		event: SessionEvent{
			Outcome: SessionRedirect,
			URL:     "myapp://auth?action=success&id=9&email=s%40x.com",
		},
	}
	s := &Session{Opener: op, Opts: sessionOpts()}

	got := s.Login(context.Background(), "facebook", core.LoginOptions{})
	if !got.Succeeded() || got.User.ID != "9" || got.User.Email != "s@x.com" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if !strings.HasPrefix(op.gotAuthURL, "https://auth.example.com?backto=myapp%3A%2F%2Fauth&auth=facebook") {
		t.Fatalf("unexpected auth URL: %q", op.gotAuthURL)
	}
	if op.gotReturnURL != "myapp://auth" {
		t.Fatalf("session must target the host return URL, got %q", op.gotReturnURL)
	}
}

func TestSession_RedirectFailureParams(t *testing.T) {
	op := &fakeSessionOpener{
		returnURL: "myapp://auth",
		event:     SessionEvent{Outcome: SessionRedirect, URL: "myapp://auth?action=failed&error=Access+denied"},
	}
	s := &Session{Opener: op, Opts: sessionOpts()}

	got := s.Login(context.Background(), "google", core.LoginOptions{})
	if got.Succeeded() || got.Error != "Access denied" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSession_Dismissed(t *testing.T) {
	op := &fakeSessionOpener{returnURL: "myapp://auth", event: SessionEvent{Outcome: SessionDismissed}}
	s := &Session{Opener: op, Opts: sessionOpts()}

	got := s.Login(context.Background(), "google", core.LoginOptions{})
	if got.Code != core.KindRequestCanceled {
		t.Fatalf("expected request_canceled, got %+v", got)
	}
}

func TestSession_OtherTerminalState(t *testing.T) {
	op := &fakeSessionOpener{returnURL: "myapp://auth", event: SessionEvent{Outcome: SessionOther}}
	s := &Session{Opener: op, Opts: sessionOpts()}

	got := s.Login(context.Background(), "google", core.LoginOptions{})
	if got.Code != core.KindAuthFailed || got.Error != "Authentication failed" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSession_OpenError(t *testing.T) {
	op := &fakeSessionOpener{returnURL: "myapp://auth", err: errors.New("network is unreachable")}
	s := &Session{Opener: op, Opts: sessionOpts()}

	got := s.Login(context.Background(), "google", core.LoginOptions{})
	if got.Code != core.KindNetworkError {
		t.Fatalf("expected network_error, got %+v", got)
	}
}

func TestSession_ExplicitCallbackOverride(t *testing.T) {
	op := &fakeSessionOpener{
		returnURL: "myapp://auth",
		event:     SessionEvent{Outcome: SessionDismissed},
	}
	s := &Session{Opener: op, Opts: sessionOpts()}

	s.Login(context.Background(), "google", core.LoginOptions{CallbackURL: "myapp://other-return"})
	if op.gotReturnURL != "myapp://other-return" {
		t.Fatalf("explicit callback must win, got %q", op.gotReturnURL)
	}
}
