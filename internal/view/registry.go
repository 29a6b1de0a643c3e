// Package view holds the rendered policy cards, reconciles them with
// fetched and pushed state, and renders them.
package view

import (
	"sync"

	"github.com/ziadkadry99/policyvote/internal/api"
)

// VoteCache records, per policy id, whether this device already voted.
// It is rebuilt on every list fetch and may be filled concurrently.
type VoteCache struct {
	mu    sync.Mutex
	voted map[string]bool
}

// NewVoteCache returns an empty cache.
func NewVoteCache() *VoteCache {
	return &VoteCache{voted: make(map[string]bool)}
}

// Set records the vote flag for id.
func (c *VoteCache) Set(id string, voted bool) {
	c.mu.Lock()
	c.voted[id] = voted
	c.mu.Unlock()
}

// Voted reports the flag for id; unknown ids are not voted.
func (c *VoteCache) Voted(id string) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voted[id]
}

// Registry is the id-indexed set of rendered cards. Fetches replace it
// wholesale; push patches and vote transitions update single cards.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	cards    map[string]*Card
	observer func(Card)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{cards: make(map[string]*Card)}
}

// SetObserver registers fn to be called with a snapshot of every card
// that changes. fn runs outside the registry lock.
func (r *Registry) SetObserver(fn func(Card)) {
	r.mu.Lock()
	r.observer = fn
	r.mu.Unlock()
}

// Reconcile replaces the rendered cards with policies, in order. Vote
// state comes from voted (or the policy's own current_user_vote flag),
// except that a card with a vote in flight keeps it.
func (r *Registry) Reconcile(policies []api.Policy, voted *VoteCache) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cards := make(map[string]*Card, len(policies))
	order := make([]string, 0, len(policies))
	for _, p := range policies {
		if _, dup := cards[p.ID]; dup {
			continue
		}
		card := &Card{Policy: p, State: StateUnvoted}
		if voted.Voted(p.ID) || p.CurrentUserVote {
			card.State = StateVoted
		}
		if prev, ok := r.cards[p.ID]; ok && prev.State == StateVoteInFlight {
			card.State = StateVoteInFlight
			card.Pending = prev.Pending
		}
		cards[p.ID] = card
		order = append(order, p.ID)
	}
	r.cards = cards
	r.order = order
}

// BeginVote moves an enabled card to vote-in-flight, disabling both
// buttons. It fails if the buttons are already disabled.
func (r *Registry) BeginVote(id string, vt api.VoteType) error {
	return r.update(id, func(c *Card) error { return c.beginVote(vt) })
}

// CompleteVote marks an in-flight vote as accepted.
func (r *Registry) CompleteVote(id string) error {
	return r.update(id, func(c *Card) error { return c.completeVote() })
}

// FailVote marks an in-flight vote as rejected, re-enabling the buttons.
func (r *Registry) FailVote(id, msg string) error {
	return r.update(id, func(c *Card) error { return c.failVote(msg) })
}

// ApplyVotes patches the counts of one card. It is a no-op returning
// false when the card is not rendered. Vote state is left unchanged.
func (r *Registry) ApplyVotes(id string, upvotes, downvotes int) bool {
	err := r.update(id, func(c *Card) error {
		c.Policy.Upvotes = upvotes
		c.Policy.Downvotes = downvotes
		return nil
	})
	return err == nil
}

// ApplyStatus patches the status of one card, returning false when the
// card is not rendered.
func (r *Registry) ApplyStatus(id string, status api.Status) bool {
	err := r.update(id, func(c *Card) error {
		c.Policy.Status = status
		return nil
	})
	return err == nil
}

// Card returns a snapshot of one card.
func (r *Registry) Card(id string) (Card, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cards[id]
	if !ok {
		return Card{}, false
	}
	return *c, true
}

// Cards returns snapshots of all cards in fetch order.
func (r *Registry) Cards() []Card {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Card, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.cards[id])
	}
	return out
}

// Len returns the number of rendered cards.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) update(id string, fn func(*Card) error) error {
	r.mu.Lock()
	c, ok := r.cards[id]
	if !ok {
		r.mu.Unlock()
		return ErrUnknownPolicy
	}
	if err := fn(c); err != nil {
		r.mu.Unlock()
		return err
	}
	snapshot, observer := *c, r.observer
	r.mu.Unlock()

	if observer != nil {
		observer(snapshot)
	}
	return nil
}
