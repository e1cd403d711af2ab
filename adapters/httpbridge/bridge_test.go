package httpbridge

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildBridgeHTML_UsesSafeTargetOrigin(t *testing.T) {
	payload := []byte(`{"type":"AUTHBRIDGE_RESULT"}`)

	origin := `https://example.com";alert(1);//`
	html := string(buildBridgeHTML(payload, origin))

	if strings.Contains(html, "postMessage(data, '") {
		t.Fatalf("expected not to embed origin in single-quoted JS string")
	}
	if !strings.Contains(html, "var targetOrigin = ") {
		t.Fatalf("expected targetOrigin variable")
	}
	if !strings.Contains(html, `var targetOrigin = "https://example.com\";alert(1);//";`) {
		t.Fatalf("expected JSON-escaped origin in JS string literal, got: %s", html)
	}
}

func TestHandler_EmbedsRedirectParams(t *testing.T) {
	h := &Handler{TargetOrigin: "https://app.example.com"}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/callback?action=success&id=1&email=e%40x.com&nonce=abc", nil)
	h.ServeHTTP(w, r)

	body := w.Body.String()
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(body, `"type":"AUTHBRIDGE_RESULT"`) {
		t.Fatalf("missing message type: %s", body)
	}
	if !strings.Contains(body, `"nonce":"abc"`) {
		t.Fatalf("nonce must be echoed at the top level: %s", body)
	}
	if !strings.Contains(body, `"email":"e@x.com"`) || !strings.Contains(body, `"action":"success"`) {
		t.Fatalf("params must be embedded: %s", body)
	}
	if strings.Count(body, `"nonce"`) != 1 {
		t.Fatalf("nonce should not also appear inside params: %s", body)
	}
	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "frame-ancestors 'none'") {
		t.Fatalf("missing CSP: %q", csp)
	}
}

func TestHandler_HostileQuerySurvivesEscaping(t *testing.T) {
	h := &Handler{TargetOrigin: "https://app.example.com"}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/callback?action=failed&error=%22%3C%2Fscript%3E%3Cscript%3Ealert(1)%3C%2Fscript%3E", nil)
	h.ServeHTTP(w, r)

	body := w.Body.String()
	if strings.Contains(body, "</script><script>") {
		t.Fatalf("script breakout not escaped: %s", body)
	}
}
