// Package appleid models the host's native Apple sign-in capability and the
// backend verification step that enriches a locally obtained credential.
package appleid

import (
	"context"
	"errors"
	"strings"
)

// Requested credential scopes. Email and name are only populated by Apple on
// the user's first-ever grant; later grants return the stable user ID alone.
const (
	ScopeFullName = "full_name"
	ScopeEmail    = "email"
)

// ErrCanceled is returned by a Requester when the user dismissed the native
// prompt. ErrUnavailable means the capability probe came back negative at
// request time.
var (
	ErrCanceled    = errors.New("apple sign-in canceled by user")
	ErrUnavailable = errors.New("apple sign-in unavailable")
)

// Credential is the raw payload the native capability hands back.
type Credential struct {
	UserID            string
	Email             string
	GivenName         string
	FamilyName        string
	IdentityToken     string
	AuthorizationCode string
}

// FullName joins the name components Apple returns separately.
func (c *Credential) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.GivenName) + " " + strings.TrimSpace(c.FamilyName))
}

// Requester is the native credential capability. Absence is a first-class
// value: Available answers the runtime probe, and implementations return
// ErrCanceled / ErrUnavailable for the corresponding terminal outcomes.
//
// Real hosts back this with an ASAuthorization binding; tests use fakes.
type Requester interface {
	Available(ctx context.Context) (bool, error)
	Request(ctx context.Context, scopes []string) (*Credential, error)
}
