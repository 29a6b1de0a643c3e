package notice

import (
	"sync"
	"testing"
	"time"
)

type manualTimer struct {
	mu      sync.Mutex
	pending []func()
	ttls    []time.Duration
}

func (m *manualTimer) AfterFunc(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, f)
	m.ttls = append(m.ttls, d)
	return func() bool { return true }
}

func (m *manualTimer) fire(i int) {
	m.mu.Lock()
	f := m.pending[i]
	m.mu.Unlock()
	f()
}

func TestShowAndExpire(t *testing.T) {
	timer := &manualTimer{}
	b := NewBoard(0, 0, timer)

	b.Success("Vote recorded")
	n, ok := b.Current()
	if !ok || n.Kind != KindSuccess || n.Message != "Vote recorded" {
		t.Fatalf("Current = %+v, %v", n, ok)
	}
	timer.fire(0)
	if _, ok := b.Current(); ok {
		t.Error("banner still shown after its ttl")
	}
	if timer.ttls[0] != DefaultSuccessTTL {
		t.Errorf("success ttl = %v", timer.ttls[0])
	}
}

func TestStaleTimerKeepsNewerBanner(t *testing.T) {
	timer := &manualTimer{}
	b := NewBoard(time.Second, 2*time.Second, timer)

	b.Success("first")
	b.Error("You have already voted")
	timer.fire(0)

	n, ok := b.Current()
	if !ok || n.Kind != KindError {
		t.Fatalf("newer banner dismissed by older timer: %+v %v", n, ok)
	}
	if timer.ttls[1] != 2*time.Second {
		t.Errorf("error ttl = %v", timer.ttls[1])
	}
	timer.fire(1)
	if _, ok := b.Current(); ok {
		t.Error("error banner not dismissed")
	}
}

func TestOnShowAndDismiss(t *testing.T) {
	b := NewBoard(0, 0, &manualTimer{})
	var shown []Notice
	b.OnShow(func(n Notice) { shown = append(shown, n) })
	b.Error("boom")
	b.Dismiss()
	if len(shown) != 1 || shown[0].Message != "boom" {
		t.Errorf("shown = %+v", shown)
	}
	if _, ok := b.Current(); ok {
		t.Error("Dismiss left a banner")
	}
}
