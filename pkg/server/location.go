package server

import (
	"sort"
	"strings"
	"sync"
)

// location is a session's view of the browser's hash. The router writes it
// through SetHash, which also tells the browser. The browser's own hash
// changes arrive through receive. Listeners run on their own goroutines so a
// slow navigation never holds up the read loop.
type location struct {
	send func(Op)
	wg   sync.WaitGroup

	mu      sync.Mutex
	hash    string
	nextID  int
	subs    map[int]func(string)
	stopped bool
}

func newLocation(send func(Op)) *location {
	return &location{send: send, subs: make(map[int]func(string))}
}

// Hash implements router.Location.
func (l *location) Hash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hash
}

// SetHash implements router.Location.
func (l *location) SetHash(hash string) {
	hash = withHashMark(hash)
	subs, changed := l.update(hash)
	if !changed {
		return
	}
	l.send(Op{Op: OpHash, Value: hash})
	l.notify(subs, hash)
}

// Subscribe implements router.Location.
func (l *location) Subscribe(fn func(hash string)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

// init sets the hash the browser reported in its hello without notifying.
func (l *location) init(hash string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hash = withHashMark(hash)
}

// receive records a hash change made by the browser.
func (l *location) receive(hash string) {
	hash = withHashMark(hash)
	if subs, changed := l.update(hash); changed {
		l.notify(subs, hash)
	}
}

func (l *location) update(hash string) ([]func(string), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if hash == l.hash {
		return nil, false
	}
	l.hash = hash
	if l.stopped {
		return nil, true
	}
	ids := make([]int, 0, len(l.subs))
	for id := range l.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(string), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, l.subs[id])
	}
	l.wg.Add(len(subs))
	return subs, true
}

// notify runs each listener on its own goroutine. update has already counted
// them in wg.
func (l *location) notify(subs []func(string), hash string) {
	for _, fn := range subs {
		go func() {
			defer l.wg.Done()
			fn(hash)
		}()
	}
}

// stop silences listeners and waits for running ones to return.
func (l *location) stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
	l.wg.Wait()
}

func withHashMark(hash string) string {
	if hash == "" || strings.HasPrefix(hash, "#") {
		return hash
	}
	return "#" + hash
}
