package live

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/policyvote/internal/api"
)

type fakeClock struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (f *fakeClock) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	f.waits = append(f.waits, d)
	f.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// scriptDialer returns conns or errors in order; nil entries fail.
type scriptDialer struct {
	mu     sync.Mutex
	script []Conn
	dials  int
}

func (d *scriptDialer) Dial(context.Context) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.dials
	d.dials++
	if i < len(d.script) && d.script[i] != nil {
		return d.script[i], nil
	}
	return nil, errors.New("connection refused")
}

// closedConn is a connection that disconnects immediately.
type closedConn struct{}

func (closedConn) ReadMessage() (int, []byte, error) { return 0, nil, errors.New("eof") }
func (closedConn) Close() error                      { return nil }

type recorder struct {
	mu       sync.Mutex
	votes    map[string][2]int
	statuses map[string]api.Status
	known    map[string]bool
}

func newRecorder(known ...string) *recorder {
	r := &recorder{votes: map[string][2]int{}, statuses: map[string]api.Status{}, known: map[string]bool{}}
	for _, id := range known {
		r.known[id] = true
	}
	return r
}

func (r *recorder) ApplyVotes(id string, up, down int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known[id] {
		return false
	}
	r.votes[id] = [2]int{up, down}
	return true
}

func (r *recorder) ApplyStatus(id string, status api.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known[id] {
		return false
	}
	r.statuses[id] = status
	return true
}

func TestBackoffThenGiveUp(t *testing.T) {
	clock := &fakeClock{}
	dialer := &scriptDialer{}
	var states []State
	ch := New(dialer, newRecorder(), Options{
		Clock:         clock,
		OnStateChange: func(s State) { states = append(states, s) },
	})

	if err := ch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ch.State() != StateGivenUp {
		t.Errorf("state = %v, want given-up", ch.State())
	}
	want := []time.Duration{3 * time.Second, 6 * time.Second, 9 * time.Second, 12 * time.Second, 15 * time.Second}
	if !reflect.DeepEqual(clock.waits, want) {
		t.Errorf("waits = %v, want %v", clock.waits, want)
	}
	if dialer.dials != 6 {
		t.Errorf("dials = %d, want 6", dialer.dials)
	}
	if states[len(states)-1] != StateGivenUp || states[0] != StateConnecting {
		t.Errorf("states = %v", states)
	}
}

func TestAttemptsResetOnOpen(t *testing.T) {
	clock := &fakeClock{}
	dialer := &scriptDialer{script: []Conn{nil, closedConn{}}}
	ch := New(dialer, newRecorder(), Options{Clock: clock, MaxAttempts: 2, BaseDelay: time.Second})

	if err := ch.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []time.Duration{time.Second, time.Second, 2 * time.Second}
	if !reflect.DeepEqual(clock.waits, want) {
		t.Errorf("waits = %v, want %v", clock.waits, want)
	}
	if dialer.dials != 4 {
		t.Errorf("dials = %d, want 4", dialer.dials)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	blocked := make(chan time.Time)
	ch := New(&scriptDialer{}, newRecorder(), Options{Clock: blockingClock(blocked)})

	errc := make(chan error, 1)
	go func() { errc <- ch.Run(ctx) }()
	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run after cancel = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if ch.State() != StateIdle {
		t.Errorf("state = %v, want idle", ch.State())
	}
}

type blockingClock chan time.Time

func (b blockingClock) After(time.Duration) <-chan time.Time { return b }

func TestApply(t *testing.T) {
	rec := newRecorder("abc", "def")
	tests := []struct {
		msg     string
		patched bool
		wantErr bool
	}{
		{`{"type":"vote_update","policy_id":"abc","data":{"upvotes":5,"downvotes":1}}`, true, false},
		{`{"type":"policy_update","policy_id":"def","data":{"status":"approved"}}`, true, false},
		{`{"type":"vote_update","policy_id":"zzz","data":{"upvotes":1,"downvotes":1}}`, false, false},
		{`{"type":"comment_added","policy_id":"abc","data":{}}`, false, false},
		{`not json`, false, true},
		{`{"type":"vote_update","policy_id":"abc","data":"bad"}`, false, true},
	}
	for _, tt := range tests {
		patched, err := Apply(rec, []byte(tt.msg))
		if patched != tt.patched || (err != nil) != tt.wantErr {
			t.Errorf("Apply(%s) = %v, %v", tt.msg, patched, err)
		}
	}
	if rec.votes["abc"] != [2]int{5, 1} {
		t.Errorf("abc votes = %v", rec.votes["abc"])
	}
	if _, ok := rec.votes["def"]; ok {
		t.Error("vote_update for abc touched def")
	}
	if rec.statuses["def"] != api.StatusApproved {
		t.Errorf("def status = %q", rec.statuses["def"])
	}
}

func TestWebSocketEndToEnd(t *testing.T) {
	upgrader := websocket.Upgrader{}
	gotFingerprint := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFingerprint <- r.Header.Get("X-Device-Fingerprint")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range []string{
			`{"type":"vote_update","policy_id":"abc","data":{"upvotes":5,"downvotes":1}}`,
			`{"type":"unknown"}`,
			`{"type":"policy_update","policy_id":"abc","data":{"status":"in_progress"}}`,
		} {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	dialer := &WebSocketDialer{
		URL: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws",
		Header: func(context.Context) (http.Header, error) {
			h := http.Header{}
			h.Set("X-Device-Fingerprint", "dev_1_abc_def")
			return h, nil
		},
	}
	rec := newRecorder("abc")
	ch := New(dialer, rec, Options{MaxAttempts: -1})
	if err := ch.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if fp := <-gotFingerprint; fp != "dev_1_abc_def" {
		t.Errorf("handshake fingerprint = %q", fp)
	}
	if rec.votes["abc"] != [2]int{5, 1} {
		t.Errorf("votes = %v", rec.votes["abc"])
	}
	if rec.statuses["abc"] != api.StatusInProgress {
		t.Errorf("status = %q", rec.statuses["abc"])
	}
	if ch.State() != StateGivenUp {
		t.Errorf("state = %v", ch.State())
	}
}
