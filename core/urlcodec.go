package core

import (
	"net/url"
	"strings"
)

// Redirect handshake query params carried on the authorization URL.
const (
	ParamBackTo   = "backto"
	ParamProvider = "auth"
)

// BuildAuthURL encodes the provider and return address into the backend's
// authorization URL: {backend}?backto={callback}&auth={provider}. No other
// params are added; anything else the handshake needs rides on the callback
// address itself.
func BuildAuthURL(backend, provider, callback string) string {
	return backend + "?" + ParamBackTo + "=" + url.QueryEscape(callback) + "&" + ParamProvider + "=" + provider
}

// ParseCallbackURL decodes the query component of a returned URL into a flat
// string mapping. Callers may pass a full URL or a bare query string: the
// part after the first '?' is used, or the whole input when there is none.
//
// Decoding is per-pair tolerant: a pair whose key or value fails
// percent-decoding is dropped and the rest still parse. The function never
// fails; total garbage yields an empty map.
func ParseCallbackURL(raw string) map[string]string {
	if _, q, ok := strings.Cut(raw, "?"); ok {
		raw = q
	}
	params := make(map[string]string)
	for pair := range strings.SplitSeq(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil || key == "" {
			continue
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		params[key] = val
	}
	return params
}
