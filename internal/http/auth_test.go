package handlers_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"storefront/internal/http/handlers"
	"storefront/internal/storage"
)

func TestLoginAcceptsObjectAndStringTokens(t *testing.T) {
	app, deps := newApp(t, appOpts{})

	obj := newVisitor(t, app)
	obj.page("/login")
	expectRedirect(t, obj.post("/login", url.Values{"username": {"mor_2314"}, "password": {goodPassword}}), "/products")

	str := newVisitor(t, app)
	str.page("/login")
	expectRedirect(t, str.post("/login", url.Values{"username": {"stringy"}, "password": {goodPassword}}), "/products")
	if got := str.page("/products").Find(".username").Text(); got != "stringy" {
		t.Fatalf("header username = %q", got)
	}

	s := deps.Sessions.Get(str.cookies["sid"])
	if tok, _ := storage.GetString(s.Store, storage.KeyToken); tok != "tok-string" {
		t.Fatalf("stored token = %q", tok)
	}
	// A logged-in visitor skips the form.
	expectRedirect(t, str.get("/login"), "/products")
}

func TestLoginFailures(t *testing.T) {
	app, _ := newApp(t, appOpts{})
	v := newVisitor(t, app)
	v.page("/login")

	cases := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{"wrong password", "mor_2314", "nope-nope", "username or password is incorrect"},
		{"short password", "mor_2314", "abc", "Password must be at least 4 characters"},
		{"missing username", "", goodPassword, "Username is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := v.post("/login", url.Values{"username": {tc.username}, "password": {tc.password}})
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
			if got := parse(t, resp).Find("p.error").Text(); got != tc.want {
				t.Fatalf("error = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoginThrottle(t *testing.T) {
	app, _ := newApp(t, appOpts{loginLimit: handlers.LoginLimiter(2, time.Minute)})
	v := newVisitor(t, app)
	v.page("/login")

	entries := captureLogs(t, func() {
		for i := 0; i < 3; i++ {
			resp := v.post("/login", url.Values{"username": {"mor_2314"}, "password": {"wrongpass"}})
			if i < 2 && resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("attempt %d: expected 401, got %d", i, resp.StatusCode)
			}
			if i == 2 && resp.StatusCode != http.StatusTooManyRequests {
				t.Errorf("expected 429 after throttle, got %d", resp.StatusCode)
			}
		}
	})
	if !hasAction(entries, "auth.login.fail") || !hasAction(entries, "rate.login.hit") {
		t.Fatalf("expected auth.login.fail and rate.login.hit logs")
	}
}

func TestLoginRequiresCSRF(t *testing.T) {
	app, _ := newApp(t, appOpts{})
	v := newVisitor(t, app)
	v.page("/login")

	resp := v.post("/login", url.Values{"csrf": {"forged"}, "username": {"mor_2314"}, "password": {goodPassword}})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without a valid csrf token, got %d", resp.StatusCode)
	}
}
