// Package session wires the per-origin collaborators together. An origin is
// one browser, identified by its sid cookie.
package session

import (
	"sync"
	"time"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/events"
	"storefront/internal/listing"
	"storefront/internal/storage"
)

// Catalog is what a session needs from the remote catalog.
type Catalog interface {
	listing.Source
	auth.Authenticator
}

// Stores hands out the durable store of an origin.
type Stores interface {
	Scope(origin string) storage.Store
}

type Session struct {
	Origin  string
	Store   storage.Store
	Bus     *events.Bus
	Cart    *cart.Cart
	Gate    *auth.Gate
	Browser *listing.Browser

	lastSeen time.Time
}

type Manager struct {
	Stores       Stores
	Hub          *events.Hub
	Catalog      Catalog
	ItemsPerPage int
	Idle         time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	locks    originLocks
	now      func() time.Time
}

func NewManager(stores Stores, hub *events.Hub, client Catalog, itemsPerPage int, idle time.Duration) *Manager {
	return &Manager{
		Stores:       stores,
		Hub:          hub,
		Catalog:      client,
		ItemsPerPage: itemsPerPage,
		Idle:         idle,
		sessions:     map[string]*Session{},
		now:          time.Now,
	}
}

// Get returns the live session of origin, creating it on first use. Idle
// sessions are dropped along the way; their persisted state stays in the
// store and is picked up again on the next visit.
func (m *Manager) Get(origin string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evictLocked(now)
	s, ok := m.sessions[origin]
	if !ok {
		store := m.Stores.Scope(origin)
		bus := m.Hub.Bus(origin)
		s = &Session{
			Origin:  origin,
			Store:   store,
			Bus:     bus,
			Cart:    &cart.Cart{Store: store, Bus: bus, Lock: m.locks.For(origin)},
			Gate:    &auth.Gate{Store: store, Bus: bus, Client: m.Catalog},
			Browser: listing.NewBrowser(m.Catalog, m.ItemsPerPage),
		}
		m.sessions[origin] = s
	}
	s.lastSeen = now
	return s
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) evictLocked(now time.Time) {
	if m.Idle <= 0 {
		return
	}
	for origin, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.Idle {
			delete(m.sessions, origin)
			m.Hub.Drop(origin)
		}
	}
}

// Touch marks origin as active without creating a session.
func (m *Manager) Touch(origin string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[origin]; ok {
		s.lastSeen = m.now()
	}
}
