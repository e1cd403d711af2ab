package appleid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/open-rails/authbridge/backend"
	"github.com/open-rails/authbridge/core"
	"go.uber.org/zap"
)

// Verifier posts a locally obtained credential to the backend's verification
// endpoint and returns the enriched identity. Callers treat any error here as
// non-fatal and fall back to the local credential fields.
type Verifier struct {
	// BackendURL is the backend origin; VerifyPath is appended.
	BackendURL string
	// HTTPClient defaults to a client with a short timeout — this call sits
	// inside an interactive sign-in and must not hang it.
	HTTPClient *http.Client
	// Logger defaults to nop.
	Logger *zap.Logger
}

func (v *Verifier) client() *http.Client {
	if v.HTTPClient != nil {
		return v.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (v *Verifier) log() *zap.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return zap.NewNop()
}

// Verify exchanges the credential for the backend's view of the user. The
// returned user merges backend fields over local ones, so a backend that
// stored the first-grant email fills it in on repeat sign-ins.
func (v *Verifier) Verify(ctx context.Context, cred *Credential) (core.User, error) {
	body, err := json.Marshal(backend.VerifyRequest{
		IdentityToken:     cred.IdentityToken,
		AuthorizationCode: cred.AuthorizationCode,
		User:              cred.UserID,
		Email:             cred.Email,
		FullName:          cred.FullName(),
	})
	if err != nil {
		return core.User{}, err
	}
	url := v.BackendURL + backend.VerifyPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return core.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client().Do(req)
	if err != nil {
		return core.User{}, fmt.Errorf("apple verify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return core.User{}, fmt.Errorf("apple verify: unexpected status %d", resp.StatusCode)
	}

	var vr backend.VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return core.User{}, fmt.Errorf("apple verify: decode response: %w", err)
	}
	v.log().Debug("apple credential verified", zap.String("user", vr.ID))

	u := core.User{ID: vr.ID, Email: vr.Email, Name: vr.Name, Photo: vr.Photo}
	if u.ID == "" {
		u.ID = cred.UserID
	}
	if u.Email == "" {
		u.Email = cred.Email
	}
	if u.Name == "" {
		u.Name = cred.FullName()
	}
	return u, nil
}
