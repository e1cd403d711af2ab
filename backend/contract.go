// Package backend holds the wire contract between this SDK and a conforming
// authorization backend. The backend itself is an external collaborator; the
// SDK only builds URLs toward it, decodes what it redirects back, and calls
// its native-credential verification endpoint.
package backend

// VerifyPath is the native-credential verification endpoint, relative to the
// backend origin.
const VerifyPath = "/api/auth/apple/verify"

// VerifyRequest is the JSON body posted to VerifyPath after a native Apple
// credential grant. Email and FullName are forwarded because Apple only
// reveals them on the user's first-ever grant; the backend is expected to
// persist them then and enrich later calls.
type VerifyRequest struct {
	IdentityToken     string `json:"identityToken"`
	AuthorizationCode string `json:"authorizationCode"`
	User              string `json:"user"`
	Email             string `json:"email"`
	FullName          string `json:"fullName"`
}

// VerifyResponse is the backend's enriched identity on success.
type VerifyResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}
