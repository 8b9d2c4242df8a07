// Copyright (c) 2026 Slate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package keymutex provides one mutex per comparable key.

Work on different keys proceeds in parallel; work on the same key is
serialized. Entries are reference counted and dropped once no goroutine holds
or waits on them, so the map only ever contains keys that are in use.
*/
package keymutex

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Map is a set of mutexes addressed by key. The zero value is ready to use.
type Map[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
}

// Lock acquires the mutex for key and returns the function that releases it.
//
// # Example
//
//	unlock := locks.Lock(key)
//	defer unlock()
func (m *Map[K]) Lock(key K) (unlock func()) {
	m.mu.Lock()
	if m.entries == nil {
		m.entries = make(map[K]*entry)
	}
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}
}

// Len reports how many keys currently have holders or waiters.
func (m *Map[K]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
