// Package httpbridge serves the web callback landing page. The backend
// redirects the popup here; the page re-emits the redirect params to the
// opener via postMessage and stays on a same-origin URL still carrying the
// params, so both popup watchers — the message listener and the location
// poller — can complete the handshake.
package httpbridge

import (
	"encoding/json"
	"net/http"

	"github.com/open-rails/authbridge/core"
)

// MessageType tags the bridge payload so openers can ignore unrelated
// messages.
const MessageType = "AUTHBRIDGE_RESULT"

// Handler renders the callback bridge page.
type Handler struct {
	// TargetOrigin is the opener origin the payload is posted to. Required;
	// "*" would leak the result to any embedder.
	TargetOrigin string
}

type payload struct {
	Type   string            `json:"type"`
	Nonce  string            `json:"nonce,omitempty"`
	Params map[string]string `json:"params"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := core.ParseCallbackURL(r.URL.RawQuery)
	nonce := params["nonce"]
	delete(params, "nonce")

	b, _ := json.Marshal(payload{Type: MessageType, Nonce: nonce, Params: params})
	html := buildBridgeHTML(b, h.TargetOrigin)

	w.Header().Set("Content-Security-Policy", "default-src 'none'; script-src 'unsafe-inline'; base-uri 'none'; frame-ancestors 'none'")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

// buildBridgeHTML embeds the payload and target origin as JSON string
// literals so a hostile query value cannot break out of the script.
func buildBridgeHTML(payloadJSON []byte, targetOrigin string) []byte {
	originJSON, _ := json.Marshal(targetOrigin)
	html := "<!doctype html><html><body><script>\n" +
		"try {\n" +
		"  var data = " + string(payloadJSON) + ";\n" +
		"  var targetOrigin = " + string(originJSON) + ";\n" +
		"  if (window.opener) { window.opener.postMessage(data, targetOrigin); }\n" +
		"} finally { /* keep the URL readable for the opener's poller */ }\n" +
		"</script></body></html>"
	return []byte(html)
}
