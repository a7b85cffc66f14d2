package console

import (
	"fmt"
	"log"
	"sync"
	"testing"
)

type fakeController struct {
	running  bool
	sessions int
	rooms    int
}

func (f *fakeController) Start(string) error { f.running = true; return nil }
func (f *fakeController) Stop() { f.running = false }
func (f *fakeController) Running() bool { return f.running }
func (f *fakeController) Addr() string { return "127.0.0.1:5555" }
func (f *fakeController) SessionCount() int { return f.sessions }
func (f *fakeController) RoomCount() int { return f.rooms }

func TestStatusLine(t *testing.T) {
	ctrl := &fakeController{sessions: 3, rooms: 2}

	if got := statusLine(ctrl); got != "STOPPED" {
		t.Errorf("stopped status = %q", got)
	}

	ctrl.Start(":5555")
	want := "RUNNING on 127.0.0.1:5555 | sessions: 3 | rooms: 2"
	if got := statusLine(ctrl); got != want {
		t.Errorf("running status = %q, want %q", got, want)
	}
}

// TestLineBufferKeepsOrder writes from a logger and checks that drains see
// every line exactly once, in order.
func TestLineBufferKeepsOrder(t *testing.T) {
	var notified int
	var mu sync.Mutex
	buf := &lineBuffer{notify: func() {
		mu.Lock()
		notified++
		mu.Unlock()
	}}
	logger := log.New(buf, "", 0)

	for i := 0; i < 3; i++ {
		logger.Printf("line %d", i)
	}
	if got := string(buf.drain()); got != "line 0\nline 1\nline 2\n" {
		t.Errorf("drain = %q", got)
	}
	if got := buf.drain(); len(got) != 0 {
		t.Errorf("second drain should be empty, got %q", got)
	}

	fmt.Fprintln(buf, "later")
	if got := string(buf.drain()); got != "later\n" {
		t.Errorf("drain after more writes = %q", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if notified != 4 {
		t.Errorf("expected 4 flush requests, got %d", notified)
	}
}

func TestLineBufferConcurrentWriters(t *testing.T) {
	buf := &lineBuffer{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = buf.Write([]byte("x"))
			}
		}()
	}
	wg.Wait()

	if got := len(buf.drain()); got != 800 {
		t.Errorf("expected 800 bytes, got %d", got)
	}
}
