package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a failure that already knows its classification. Transports return
// these for outcomes they can name precisely; Classify passes the kind
// through untouched.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return string(e.Kind)
}

// NewError builds a classified error.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Classify converts any error into a failure Result. It never panics and the
// returned Error message is never empty.
//
// A *core.Error anywhere in the chain keeps its kind. Otherwise the message
// is matched case-insensitively, in priority order: cancellation words beat
// network words beat token words; anything else is auth_failed with the
// message preserved verbatim.
func Classify(err error) Result {
	if err == nil {
		return Fail(KindAuthFailed, "Authentication failed")
	}
	var ce *Error
	if errors.As(err, &ce) {
		return Fail(ce.Kind, ce.Error())
	}
	msg := err.Error()
	return Fail(classifyMessage(msg), msg)
}

// ClassifyValue is Classify for recovered panic values and other non-error
// shapes. Strings are classified by their text; everything else becomes a
// generic auth_failed.
func ClassifyValue(v any) Result {
	switch x := v.(type) {
	case nil:
		return Fail(KindAuthFailed, "Authentication failed")
	case error:
		return Classify(x)
	case string:
		if x == "" {
			return Fail(KindAuthFailed, "Authentication failed")
		}
		return Fail(classifyMessage(x), x)
	default:
		return Fail(KindAuthFailed, fmt.Sprintf("Authentication failed: %v", x))
	}
}

func classifyMessage(msg string) ErrorKind {
	m := strings.ToLower(msg)
	switch {
	case containsAny(m, "cancel", "cancelled", "dismissed"):
		return KindRequestCanceled
	case containsAny(m, "network", "fetch", "connection"):
		return KindNetworkError
	case containsAny(m, "token", "invalid", "expired"):
		return KindInvalidToken
	default:
		return KindAuthFailed
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
