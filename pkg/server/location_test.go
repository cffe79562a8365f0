package server

import (
	"sync"
	"testing"
	"time"
)

type opLog struct {
	mu  sync.Mutex
	ops []Op
}

func (l *opLog) send(op Op) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) list() []Op {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Op(nil), l.ops...)
}

func TestLocation_SetHash(t *testing.T) {
	var log opLog
	loc := newLocation(log.send)

	got := make(chan string, 4)
	loc.Subscribe(func(hash string) { got <- hash })

	loc.SetHash("/cart")
	if loc.Hash() != "#/cart" {
		t.Errorf("Hash() = %q, want #/cart", loc.Hash())
	}
	select {
	case h := <-got:
		if h != "#/cart" {
			t.Errorf("listener got %q", h)
		}
	case <-time.After(time.Second):
		t.Fatal("listener not called")
	}

	loc.SetHash("#/cart")
	loc.stop()
	if len(got) != 0 {
		t.Errorf("unchanged hash notified listeners")
	}
	ops := log.list()
	if len(ops) != 1 || ops[0].Op != OpHash || ops[0].Value != "#/cart" {
		t.Errorf("ops = %+v, want one hash op", ops)
	}
}

func TestLocation_ReceiveDoesNotEcho(t *testing.T) {
	var log opLog
	loc := newLocation(log.send)
	loc.init("#/home")

	var calls sync.WaitGroup
	calls.Add(1)
	loc.Subscribe(func(string) { calls.Done() })

	loc.receive("#/home")
	loc.receive("#/products")
	calls.Wait()
	loc.stop()

	if ops := log.list(); len(ops) != 0 {
		t.Errorf("receive sent ops %+v", ops)
	}
	if loc.Hash() != "#/products" {
		t.Errorf("Hash() = %q", loc.Hash())
	}
}

func TestLocation_UnsubscribeAndStop(t *testing.T) {
	loc := newLocation(func(Op) {})
	var mu sync.Mutex
	calls := 0
	unsubscribe := loc.Subscribe(func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	unsubscribe()
	loc.receive("#/cart")

	loc.Subscribe(func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	loc.stop()
	loc.receive("#/orders")
	if loc.Hash() != "#/orders" {
		t.Errorf("Hash() = %q after stop", loc.Hash())
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("listener called %d times, want 0", calls)
	}
}
