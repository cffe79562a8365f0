// Package location provides an in-memory hash location for the router.
//
// Memory behaves like a browser's location.hash. Assigning a new value notifies
// subscribers, and assigning the value it already holds does nothing. The CLI
// tools and the tests use it in place of a real browser.
package location

import (
	"strings"
	"sync"
)

// Memory is an in-memory hash location. It is safe for concurrent use.
type Memory struct {
	mu          sync.Mutex
	hash        string
	nextID      int
	subscribers map[int]func(string)
	assignments []string
}

// NewMemory creates a location showing hash.
func NewMemory(hash string) *Memory {
	return &Memory{
		hash:        withHashMark(hash),
		subscribers: make(map[int]func(string)),
	}
}

// Hash returns the current hash, including the leading "#".
func (m *Memory) Hash() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hash
}

// SetHash assigns the hash and notifies subscribers synchronously when the value
// changes. Subscribers run without the lock held and may call back into m.
func (m *Memory) SetHash(hash string) {
	hash = withHashMark(hash)

	m.mu.Lock()
	if hash == m.hash {
		m.mu.Unlock()
		return
	}
	m.hash = hash
	m.assignments = append(m.assignments, hash)
	subs := make([]func(string), 0, len(m.subscribers))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(hash)
	}
}

// Subscribe registers fn for hash changes.
func (m *Memory) Subscribe(fn func(hash string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subscribers, id)
		})
	}
}

// Assignments returns every hash value that took effect, in order.
func (m *Memory) Assignments() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.assignments...)
}

// Subscribers returns the number of registered subscribers.
func (m *Memory) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

func withHashMark(hash string) string {
	if hash == "" || strings.HasPrefix(hash, "#") {
		return hash
	}
	return "#" + hash
}
