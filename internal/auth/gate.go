// Package auth is the token gate in front of checkout. Presence of a stored
// token is the whole check; there is no expiry.
package auth

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/events"
	"storefront/internal/storage"
)

const (
	LoginPath   = "/login"
	DefaultPath = "/products"
)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, creds catalog.Credentials) (string, error)
}

type Gate struct {
	Store  storage.Store
	Bus    *events.Bus
	Client Authenticator
}

func (g *Gate) Token() string {
	tok, err := storage.GetString(g.Store, storage.KeyToken)
	if err != nil {
		return ""
	}
	return tok
}

func (g *Gate) Username() string {
	u, err := storage.GetString(g.Store, storage.KeyUsername)
	if err != nil {
		return ""
	}
	return u
}

func (g *Gate) Authenticated() bool { return g.Token() != "" }

// RequireLogin remembers destination for after login and returns where to
// send the visitor now.
func (g *Gate) RequireLogin(destination string) (string, error) {
	if err := storage.SetJSON(g.Store, storage.KeyRedirectAfterLogin, destination); err != nil {
		return "", err
	}
	return LoginPath, nil
}

// Login stores the issued token and username, notifies AuthChanged and
// returns the page to continue on: a pending redirect marker (consumed
// here) or DefaultPath.
func (g *Gate) Login(ctx context.Context, username, password string) (string, error) {
	tok, err := g.Client.Login(ctx, catalog.Credentials{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	if err := storage.SetJSON(g.Store, storage.KeyToken, tok); err != nil {
		return "", err
	}
	if err := storage.SetJSON(g.Store, storage.KeyUsername, username); err != nil {
		return "", err
	}
	if g.Bus != nil {
		g.Bus.Publish(events.AuthChanged)
	}
	return g.consumeRedirect()
}

func (g *Gate) consumeRedirect() (string, error) {
	dest, err := storage.GetString(g.Store, storage.KeyRedirectAfterLogin)
	if err != nil || dest == "" {
		return DefaultPath, err
	}
	if err := g.Store.Remove(storage.KeyRedirectAfterLogin); err != nil {
		return "", err
	}
	return dest, nil
}
