// Package storage defines the origin-scoped key/value store that backs the
// cart, the auth token and the post-login redirect marker.
package storage

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Well-known keys.
const (
	KeyToken              = "token"
	KeyUsername           = "username"
	KeyCart               = "cart"
	KeyRedirectAfterLogin = "redirectAfterLogin"
)

// Store holds JSON-encoded values under string keys. A missing key is
// reported as ok == false, never as an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// GetJSON decodes the value under key into v. It reports false when the key
// is absent; a decode failure is returned as an error.
func GetJSON(s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(key, string(b))
}

// GetString reads a JSON string value. Values that are not JSON strings are
// returned verbatim so raw writes stay readable.
func GetString(s Store, key string) (string, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return "", err
	}
	var out string
	if json.Unmarshal([]byte(raw), &out) != nil {
		return raw, nil
	}
	return out, nil
}

// Memory is a map-backed Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory { return &Memory{data: map[string]string{}} }

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string]string{}
	return nil
}
