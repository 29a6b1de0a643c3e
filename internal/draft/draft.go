// Package draft keeps the single in-progress policy submission on this
// device so it can be resumed later.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ziadkadry99/policyvote/internal/kv"
)

// DefaultMaxAge is how long a draft stays restorable.
const DefaultMaxAge = 24 * time.Hour

// Draft is a snapshot of the submission form.
type Draft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id"`
	SavedAt     time.Time `json:"saved_at"`
}

// Store persists at most one draft.
type Store struct {
	kv     *kv.Store
	maxAge time.Duration
	now    func() time.Time
}

// NewStore creates a draft store. maxAge <= 0 uses DefaultMaxAge.
func NewStore(store *kv.Store, maxAge time.Duration) *Store {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Store{kv: store, maxAge: maxAge, now: time.Now}
}

// Save overwrites the draft with the given fields stamped with the
// current time.
func (s *Store) Save(ctx context.Context, title, description, categoryID string) error {
	d := Draft{
		Title:       title,
		Description: description,
		CategoryID:  categoryID,
		SavedAt:     s.now().UTC(),
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshalling draft: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyDraft, string(data)); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// Load returns the stored draft. It reports false when there is none,
// when the blob is unreadable, or when it is older than the max age;
// unreadable and stale drafts are deleted.
func (s *Store) Load(ctx context.Context) (*Draft, bool, error) {
	raw, ok, err := s.kv.Get(ctx, kv.KeyDraft)
	if err != nil || !ok {
		return nil, false, err
	}

	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		log.Printf("draft: discarding unreadable draft: %v", err)
		return nil, false, s.Clear(ctx)
	}

	if s.now().Sub(d.SavedAt) > s.maxAge {
		return nil, false, s.Clear(ctx)
	}
	return &d, true, nil
}

// Has reports whether a draft blob exists, without checking its age.
func (s *Store) Has(ctx context.Context) (bool, error) {
	_, ok, err := s.kv.Get(ctx, kv.KeyDraft)
	return ok, err
}

// Clear deletes the draft.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kv.KeyDraft); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	return nil
}
