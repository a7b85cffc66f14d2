package console

import "sync"

// lineBuffer collects log output until the UI loop drains it.
type lineBuffer struct {
	mu      sync.Mutex
	pending []byte
	notify  func()
}

// Write appends p and asks for a flush. It never blocks on the UI.
func (b *lineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	b.pending = append(b.pending, p...)
	notify := b.notify
	b.mu.Unlock()

	if notify != nil {
		notify()
	}
	return len(p), nil
}

// drain returns and clears everything written so far.
func (b *lineBuffer) drain() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}
