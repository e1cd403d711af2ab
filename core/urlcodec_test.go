package core

import "testing"

func TestBuildAuthURL(t *testing.T) {
	got := BuildAuthURL("https://auth.example.com", "google", "https://app.example.com/cb")
	want := "https://auth.example.com?backto=https%3A%2F%2Fapp.example.com%2Fcb&auth=google"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	b, p, c := "https://auth.example.com", "google", "https://app.example.com/cb?x=1"
	raw := BuildAuthURL(b, p, c) + "&action=success&id=1&email=e%40x.com"
	params := ParseCallbackURL(raw)
	want := map[string]string{
		"backto": c,
		"auth":   p,
		"action": "success",
		"id":     "1",
		"email":  "e@x.com",
	}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("params[%q] = %q, want %q", k, params[k], v)
		}
	}
}

func TestParseCallbackURL_BareQueryString(t *testing.T) {
	params := ParseCallbackURL("action=failed&error=Access+denied")
	if params["action"] != "failed" || params["error"] != "Access denied" {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestParseCallbackURL_MalformedPairsAreSkipped(t *testing.T) {
	params := ParseCallbackURL("https://cb?good=1&bad=%zz&also=2&%gg=x&flag")
	if params["good"] != "1" || params["also"] != "2" {
		t.Fatalf("clean pairs must survive: %v", params)
	}
	if _, ok := params["bad"]; ok {
		t.Fatalf("malformed value must be dropped: %v", params)
	}
	if params["flag"] != "" {
		t.Fatalf("bare key decodes to empty value: %v", params)
	}
	if _, ok := params["flag"]; !ok {
		t.Fatalf("bare key should still be present: %v", params)
	}
}

func TestParseCallbackURL_NeverFails(t *testing.T) {
	for _, raw := range []string{"", "?", "???", "%%%%", "&&&&", "no-query-at-all"} {
		params := ParseCallbackURL(raw)
		if params == nil {
			t.Fatalf("ParseCallbackURL(%q) returned nil", raw)
		}
	}
}
