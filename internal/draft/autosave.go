package draft

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

// DefaultInterval is the autosave period.
const DefaultInterval = 30 * time.Second

// Form is the live state of the submission form.
type Form interface {
	Fields() (title, description, categoryID string)
}

// FormFunc adapts a function to Form.
type FormFunc func() (title, description, categoryID string)

// Fields implements Form.
func (f FormFunc) Fields() (string, string, string) { return f() }

// Autosaver periodically snapshots a Form into the Store.
type Autosaver struct {
	store    *Store
	form     Form
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewAutosaver creates an autosaver. interval <= 0 uses DefaultInterval.
func NewAutosaver(store *Store, form Form, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Autosaver{store: store, form: form, interval: interval}
}

// SaveNow snapshots the form once. It does nothing when both title and
// description are blank, and reports whether a draft was written.
func (a *Autosaver) SaveNow(ctx context.Context) (bool, error) {
	title, description, categoryID := a.form.Fields()
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return false, nil
	}
	if err := a.store.Save(ctx, title, description, categoryID); err != nil {
		return false, err
	}
	return true, nil
}

// Start begins saving on every tick until Stop is called or ctx ends.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := a.SaveNow(ctx); err != nil {
					log.Printf("draft: autosave: %v", err)
				}
			}
		}
	}(a.done)
}

// Stop ends the periodic saves and takes one final snapshot, the way
// leaving the page does.
func (a *Autosaver) Stop(ctx context.Context) error {
	a.Halt()
	_, err := a.SaveNow(ctx)
	return err
}

// Halt ends the periodic saves without a final snapshot. Used once the
// form has been submitted or discarded.
func (a *Autosaver) Halt() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
