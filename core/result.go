package core

// User is the provider-scoped identity returned on a successful login.
// It lives only for the call that produced it; nothing here persists it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// ErrorKind is the closed set of failure classifications. Every failure
// path in this module maps to exactly one of these.
type ErrorKind string

const (
	KindRequestCanceled     ErrorKind = "request_canceled"
	KindInvalidToken        ErrorKind = "invalid_token"
	KindNetworkError        ErrorKind = "network_error"
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindUnknownProvider     ErrorKind = "unknown_provider"
	KindAuthFailed          ErrorKind = "auth_failed"
)

// Status discriminates the two arms of Result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is the canonical outcome every login path converges to. Exactly one
// Result is produced per attempt and it is immutable once built.
//
// On success User is non-nil with non-empty ID and Email. On failure Error is
// a non-empty human-readable message; Code may be empty when the failure came
// from redirect params rather than a classified error.
type Result struct {
	Status Status    `json:"status"`
	User   *User     `json:"user,omitempty"`
	Error  string    `json:"error,omitempty"`
	Code   ErrorKind `json:"errorCode,omitempty"`
}

// Succeeded reports whether the attempt ended with a usable identity.
func (r Result) Succeeded() bool { return r.Status == StatusSuccess && r.User != nil }

// Canceled reports whether the user deliberately abandoned the attempt.
// Callers use this to avoid surfacing alarming UI for an intentional cancel.
func (r Result) Canceled() bool { return r.Code == KindRequestCanceled }

// Succeed builds the success arm.
func Succeed(u User) Result {
	return Result{Status: StatusSuccess, User: &u}
}

// Fail builds the failure arm. An empty msg is replaced with a generic one so
// the Error invariant holds no matter what the call site passed.
func Fail(kind ErrorKind, msg string) Result {
	if msg == "" {
		msg = "Authentication failed"
	}
	return Result{Status: StatusFailed, Error: msg, Code: kind}
}

// failRaw builds a failure without a classification code, for outcomes read
// straight from redirect params where the cause is unknowable.
func failRaw(msg string) Result {
	if msg == "" {
		msg = "Authentication failed"
	}
	return Result{Status: StatusFailed, Error: msg}
}
