// Package devserver is a development authorization backend implementing the
// redirect contract the SDK speaks: the authorize endpoint, a consent page
// standing in for the real provider hop, the redirect back to the caller's
// callback address, and the Apple credential verification endpoint. It
// exists so every transport can be exercised without real provider
// credentials.
package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/open-rails/authbridge/backend"
	"github.com/open-rails/authbridge/core"
)

// Config tunes the dev backend. Env tags let the command populate it
// straight from the environment.
type Config struct {
	// GrantTTL bounds how long a handshake may sit between authorize and
	// grant.
	GrantTTL time.Duration `env:"DEVSERVER_GRANT_TTL" envDefault:"10m"`
	// AutoGrant skips the consent page and approves immediately, which is
	// what automated tests want.
	AutoGrant bool `env:"DEVSERVER_AUTO_GRANT" envDefault:"false"`
	// MintSecret, when set, makes the verify endpoint check identity tokens
	// as HS256 JWTs signed with it. Unset means tokens are accepted as-is.
	MintSecret string `env:"DEVSERVER_MINT_SECRET"`

	// The single identity every grant resolves to.
	UserID    string `env:"DEVSERVER_USER_ID" envDefault:"dev-user-1"`
	UserEmail string `env:"DEVSERVER_USER_EMAIL" envDefault:"dev@example.com"`
	UserName  string `env:"DEVSERVER_USER_NAME" envDefault:"Dev User"`
	UserPhoto string `env:"DEVSERVER_USER_PHOTO"`
}

// Server implements the backend contract over a handshake state store.
type Server struct {
	cfg   Config
	store backend.StateStore
	log   *zap.Logger
}

func New(cfg Config, store backend.StateStore, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.GrantTTL <= 0 {
		cfg.GrantTTL = 10 * time.Minute
	}
	return &Server{cfg: cfg, store: store, log: log}
}

// Handler returns the full route set.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleAuthorize)
	mux.HandleFunc("GET /consent", s.handleConsent)
	mux.HandleFunc("GET /grant", s.handleGrant)
	mux.HandleFunc("POST "+backend.VerifyPath, s.handleAppleVerify)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// handleAuthorize is the entry of the redirect handshake:
// GET /?backto={callback}&auth={provider}. The handshake is parked in the
// state store and the user agent moves on to the consent page (or straight
// to the grant when auto-grant is on).
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	backTo := r.URL.Query().Get(core.ParamBackTo)
	provider := r.URL.Query().Get(core.ParamProvider)
	if backTo == "" || provider == "" {
		http.Error(w, "missing backto or auth parameter", http.StatusBadRequest)
		return
	}

	h := backend.Handshake{
		ID:        uuid.NewString(),
		Provider:  provider,
		BackTo:    backTo,
		CreatedAt: time.Now().UTC(),
	}
	if err := backend.PutHandshake(r.Context(), s.store, h, s.cfg.GrantTTL); err != nil {
		s.log.Error("store handshake", zap.Error(err))
		http.Error(w, "handshake store failed", http.StatusInternalServerError)
		return
	}
	s.log.Info("handshake opened",
		zap.String("id", h.ID), zap.String("provider", provider))

	if s.cfg.AutoGrant {
		http.Redirect(w, r, "/grant?hs="+h.ID+"&approve=1", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/consent?hs="+h.ID, http.StatusFound)
}

func (s *Server) handleConsent(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("hs")
	h, ok, err := backend.GetHandshake(r.Context(), s.store, id)
	if err != nil || !ok {
		http.Error(w, "unknown or expired handshake", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html><html><body>
<h1>Sign in with %s</h1>
<p>This is the authbridge devserver standing in for the real provider.</p>
<p><a href="/grant?hs=%s&approve=1">Approve</a> &middot; <a href="/grant?hs=%s&approve=0">Deny</a></p>
</body></html>`, html.EscapeString(h.Provider), html.EscapeString(id), html.EscapeString(id))
}

// handleGrant consumes the handshake and redirects the user agent back to
// the caller's callback address with the contract's success or failure
// params.
func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("hs")
	h, ok, err := backend.GetHandshake(r.Context(), s.store, id)
	if err != nil || !ok {
		http.Error(w, "unknown or expired handshake", http.StatusNotFound)
		return
	}
	_ = backend.DelHandshake(r.Context(), s.store, id)

	v := url.Values{}
	if r.URL.Query().Get("approve") == "1" {
		v.Set(core.ParamAction, core.ActionSuccess)
		v.Set(core.ParamID, h.Provider+":"+s.cfg.UserID)
		v.Set(core.ParamEmail, s.cfg.UserEmail)
		v.Set(core.ParamName, s.cfg.UserName)
		v.Set(core.ParamPhoto, s.cfg.UserPhoto)
	} else {
		v.Set(core.ParamAction, core.ActionFailed)
		v.Set(core.ParamError, "Access denied")
	}
	s.log.Info("handshake settled",
		zap.String("id", id), zap.String("action", v.Get(core.ParamAction)))

	sep := "?"
	if strings.Contains(h.BackTo, "?") {
		sep = "&"
	}
	http.Redirect(w, r, h.BackTo+sep+v.Encode(), http.StatusFound)
}

// handleAppleVerify checks a dev identity token (HS256 with MintSecret) and
// answers with the enriched dev identity. Without a configured secret the
// token is accepted unchecked, which is enough for transport-level testing.
func (s *Server) handleAppleVerify(w http.ResponseWriter, r *http.Request) {
	var req backend.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.IdentityToken == "" {
		http.Error(w, "missing identityToken", http.StatusBadRequest)
		return
	}

	sub, email := req.User, req.Email
	if s.cfg.MintSecret != "" {
		claims := jwtv5.MapClaims{}
		_, err := jwtv5.ParseWithClaims(req.IdentityToken, claims, func(t *jwtv5.Token) (any, error) {
			if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(s.cfg.MintSecret), nil
		})
		if err != nil {
			s.log.Warn("apple verify: bad identity token", zap.Error(err))
			http.Error(w, "invalid identity token", http.StatusUnauthorized)
			return
		}
		if v, _ := claims["sub"].(string); v != "" {
			sub = v
		}
		if v, _ := claims["email"].(string); v != "" {
			email = v
		}
	}

	name := req.FullName
	if name == "" {
		name = s.cfg.UserName
	}
	if email == "" {
		email = s.cfg.UserEmail
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(backend.VerifyResponse{
		ID:    "apple:" + sub,
		Email: email,
		Name:  name,
		Photo: s.cfg.UserPhoto,
	})
}
