package storage

import "sync"

// Change describes one mutation of the persistent collections.
type Change struct {
	Entity string // "transaction", "booking", "ledger"
	Op     string // "append", "update", "delete", "restore", "nuke"
	ID     string // empty for whole-ledger operations
}

// changeHub fans mutations out to subscribers. Slow subscribers drop
// changes instead of blocking writers; consumers treat a change as "go
// reload", so losing one between reloads is harmless.
type changeHub struct {
	mu     sync.Mutex
	subs   map[int]chan Change
	next   int
	closed bool
}

func newChangeHub() *changeHub {
	return &changeHub{subs: make(map[int]chan Change)}
}

func (h *changeHub) broadcast(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

func (h *changeHub) subscribe() (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Change, 16)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
}

func (h *changeHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// Subscribe returns a channel of mutations and a cancel function. The
// channel closes when cancel is called or the repository shuts down.
func (r *SQLiteRepository) Subscribe() (<-chan Change, func()) {
	return r.hub.subscribe()
}
