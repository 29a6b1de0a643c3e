// Package live consumes the server's push channel and patches rendered
// policy cards in place. It reconnects with linearly increasing backoff
// and gives up after a fixed number of attempts.
package live

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ziadkadry99/policyvote/internal/api"
)

const (
	DefaultBaseDelay   = 3 * time.Second
	DefaultMaxAttempts = 5
)

// State is the connection state of a Channel.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateBackingOff
	StateGivenUp
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateBackingOff:
		return "backing-off"
	case StateGivenUp:
		return "given-up"
	default:
		return "unknown"
	}
}

// Handler applies push patches. Both methods return false when the
// policy is not currently rendered.
type Handler interface {
	ApplyVotes(policyID string, upvotes, downvotes int) bool
	ApplyStatus(policyID string, status api.Status) bool
}

// Conn is an open push connection.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	Close() error
}

// Dialer opens push connections.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// Clock abstracts waiting so backoff can be tested without delays.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Options configures a Channel. Zero values select the defaults.
type Options struct {
	BaseDelay time.Duration
	// MaxAttempts is the number of reconnects tried before giving up.
	// Negative disables reconnecting.
	MaxAttempts   int
	Clock         Clock
	OnStateChange func(State)
}

// Channel is the reconnecting push listener.
type Channel struct {
	dialer   Dialer
	handler  Handler
	base     time.Duration
	max      int
	clock    Clock
	onChange func(State)

	mu       sync.Mutex
	state    State
	attempts int
}

// New creates an idle channel.
func New(dialer Dialer, handler Handler, opts Options) *Channel {
	c := &Channel{
		dialer:   dialer,
		handler:  handler,
		base:     opts.BaseDelay,
		max:      opts.MaxAttempts,
		clock:    opts.Clock,
		onChange: opts.OnStateChange,
	}
	if c.base <= 0 {
		c.base = DefaultBaseDelay
	}
	if c.max == 0 {
		c.max = DefaultMaxAttempts
	}
	if c.max < 0 {
		c.max = 0
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	return c
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns the number of reconnects since the last open.
func (c *Channel) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.onChange != nil {
		c.onChange(s)
	}
}

// Run connects and processes messages until ctx is cancelled or the
// channel gives up. Giving up is not an error; it returns nil and the
// state is left at StateGivenUp.
func (c *Channel) Run(ctx context.Context) error {
	for {
		c.setState(StateConnecting)
		conn, err := c.dialer.Dial(ctx)
		if ctx.Err() != nil {
			if conn != nil {
				conn.Close()
			}
			c.setState(StateIdle)
			return nil
		}
		if err != nil {
			log.Printf("live: connect failed: %v", err)
		} else {
			c.mu.Lock()
			c.attempts = 0
			c.mu.Unlock()
			c.setState(StateOpen)
			c.read(ctx, conn)
			if ctx.Err() != nil {
				c.setState(StateIdle)
				return nil
			}
			log.Printf("live: disconnected")
		}

		c.mu.Lock()
		if c.attempts >= c.max {
			c.mu.Unlock()
			c.setState(StateGivenUp)
			return nil
		}
		c.attempts++
		wait := time.Duration(c.attempts) * c.base
		c.mu.Unlock()

		c.setState(StateBackingOff)
		select {
		case <-ctx.Done():
			c.setState(StateIdle)
			return nil
		case <-c.clock.After(wait):
		}
	}
}

func (c *Channel) read(ctx context.Context, conn Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c.dispatch(data)
	}
}
