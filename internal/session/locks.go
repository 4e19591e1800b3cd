package session

import "sync"

// originLocks hands out one mutex per origin that outlives any Session of
// that origin, so a request still holding an evicted Session serializes
// with one using its replacement. Entries exist only while held or awaited.
type originLocks struct {
	mu sync.Mutex
	m  map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (l *originLocks) For(origin string) sync.Locker {
	return originLocker{set: l, origin: origin}
}

type originLocker struct {
	set    *originLocks
	origin string
}

func (o originLocker) Lock() {
	o.set.mu.Lock()
	if o.set.m == nil {
		o.set.m = map[string]*refMutex{}
	}
	rm, ok := o.set.m[o.origin]
	if !ok {
		rm = &refMutex{}
		o.set.m[o.origin] = rm
	}
	rm.refs++
	o.set.mu.Unlock()
	rm.Lock()
}

func (o originLocker) Unlock() {
	o.set.mu.Lock()
	rm := o.set.m[o.origin]
	rm.refs--
	if rm.refs == 0 {
		delete(o.set.m, o.origin)
	}
	o.set.mu.Unlock()
	rm.Unlock()
}

func (l *originLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
