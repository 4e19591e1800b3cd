package session

import "time"

func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// HeldLocks reports how many origin locks are currently held or awaited.
func (m *Manager) HeldLocks() int { return m.locks.len() }
