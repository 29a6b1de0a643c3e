// Package notice holds transient banners that dismiss themselves.
package notice

import (
	"sync"
	"time"
)

const (
	DefaultSuccessTTL = 3 * time.Second
	DefaultErrorTTL   = 5 * time.Second
)

// Kind is the banner style.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is one banner.
type Notice struct {
	Kind    Kind
	Message string
	Expires time.Time
}

// Timer abstracts time.AfterFunc so dismissal can be tested.
type Timer interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type realTimer struct{}

func (realTimer) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Board shows at most one banner at a time. A new banner replaces the
// current one.
type Board struct {
	timer      Timer
	now        func() time.Time
	successTTL time.Duration
	errorTTL   time.Duration

	mu      sync.Mutex
	current *Notice
	seq     uint64
	stop    func() bool
	onShow  func(Notice)
}

// NewBoard creates a board with the given default lifetimes. A nil timer
// uses the real clock.
func NewBoard(successTTL, errorTTL time.Duration, timer Timer) *Board {
	if timer == nil {
		timer = realTimer{}
	}
	if successTTL <= 0 {
		successTTL = DefaultSuccessTTL
	}
	if errorTTL <= 0 {
		errorTTL = DefaultErrorTTL
	}
	return &Board{timer: timer, now: time.Now, successTTL: successTTL, errorTTL: errorTTL}
}

// OnShow registers fn to be called with every banner shown.
func (b *Board) OnShow(fn func(Notice)) {
	b.mu.Lock()
	b.onShow = fn
	b.mu.Unlock()
}

// Success shows a success banner with the default lifetime.
func (b *Board) Success(msg string) { b.Show(KindSuccess, msg, b.successTTL) }

// Error shows an error banner with the default lifetime.
func (b *Board) Error(msg string) { b.Show(KindError, msg, b.errorTTL) }

// Show replaces the current banner and schedules its dismissal.
func (b *Board) Show(kind Kind, msg string, ttl time.Duration) {
	b.mu.Lock()
	if b.stop != nil {
		b.stop()
	}
	b.seq++
	seq := b.seq
	n := Notice{Kind: kind, Message: msg, Expires: b.now().Add(ttl)}
	b.current = &n
	b.stop = b.timer.AfterFunc(ttl, func() { b.dismiss(seq) })
	onShow := b.onShow
	b.mu.Unlock()

	if onShow != nil {
		onShow(n)
	}
}

// Current returns the banner being shown, if any.
func (b *Board) Current() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

// Dismiss removes the current banner.
func (b *Board) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
	if b.stop != nil {
		b.stop()
		b.stop = nil
	}
}

func (b *Board) dismiss(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seq == seq {
		b.current = nil
		b.stop = nil
	}
}
