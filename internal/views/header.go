// Package views holds the state and helpers shared by rendered pages.
package views

import (
	"sync"

	"storefront/internal/cart"
	"storefront/internal/events"
	"storefront/internal/storage"
)

// Header is what the page header shows.
type Header struct {
	CartCount  int    `json:"cartCount"`
	Username   string `json:"username,omitempty"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// ReadHeader derives the header from the store.
func ReadHeader(store storage.Store) Header {
	c := cart.New(store, nil)
	h := Header{CartCount: cart.Count(c.Load().Items)}
	tok, _ := storage.GetString(store, storage.KeyToken)
	user, _ := storage.GetString(store, storage.KeyUsername)
	if tok != "" && user != "" {
		h.IsLoggedIn = true
		h.Username = user
	}
	return h
}

// HeaderState keeps a Header current by re-reading the store on every cart
// or auth notification.
type HeaderState struct {
	store    storage.Store
	onChange func(Header)

	mu    sync.Mutex
	cur   Header
	unsub []func()
}

// WatchHeader subscribes to bus. onChange, if set, is called with the fresh
// header after each notification.
func WatchHeader(store storage.Store, bus *events.Bus, onChange func(Header)) *HeaderState {
	h := &HeaderState{store: store, onChange: onChange, cur: ReadHeader(store)}
	refresh := func(events.Topic) {
		next := ReadHeader(store)
		h.mu.Lock()
		h.cur = next
		h.mu.Unlock()
		if h.onChange != nil {
			h.onChange(next)
		}
	}
	h.unsub = append(h.unsub,
		bus.Subscribe(events.CartChanged, refresh),
		bus.Subscribe(events.AuthChanged, refresh),
	)
	return h
}

func (h *HeaderState) Current() Header {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur
}

// Close unsubscribes from the bus.
func (h *HeaderState) Close() {
	for _, u := range h.unsub {
		u()
	}
}
