package service

import "sync"

// watchHub wakes every goroutine waiting on a key when that key is written.
// Each key owns a channel that is closed on publish and replaced, so a
// waiter that grabbed the channel before reading the store cannot miss a
// write that happens after the read.
type watchHub struct {
	mu      sync.Mutex
	waiters map[string]chan struct{}
}

func newWatchHub() *watchHub {
	return &watchHub{waiters: make(map[string]chan struct{})}
}

// wait returns a channel that is closed by the next publish of key.
func (h *watchHub) wait(key string) <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.waiters[key]
	if !ok {
		ch = make(chan struct{})
		h.waiters[key] = ch
	}
	return ch
}

func (h *watchHub) publish(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.waiters[key]; ok {
		close(ch)
		delete(h.waiters, key)
	}
}
