package controller

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/progress"
	"github.com/ziadkadry99/policyvote/internal/view"
)

// statusWorkers bounds concurrent vote-status requests during a load.
const statusWorkers = 8

// Dashboard handles the student policy list.
type Dashboard struct {
	env      Env
	registry *view.Registry
	progress progress.Reporter

	mu     sync.Mutex
	filter api.PolicyFilter
}

// NewDashboard creates the dashboard controller rendering into registry.
func NewDashboard(env Env, registry *view.Registry) *Dashboard {
	return &Dashboard{env: env, registry: registry, progress: progress.Nop{}}
}

// SetProgress reports per-policy vote-status checks to r.
func (d *Dashboard) SetProgress(r progress.Reporter) {
	d.progress = r
}

// Registry returns the rendered cards.
func (d *Dashboard) Registry() *view.Registry {
	return d.registry
}

// Load fetches the policies matching filter, checks this device's vote
// on each and replaces the rendered cards. A failed vote-status check
// is logged and that card is treated as not voted.
func (d *Dashboard) Load(ctx context.Context, filter api.PolicyFilter) error {
	if filter.Lang == "" {
		filter.Lang = string(d.env.Translator.Lang)
	}
	d.mu.Lock()
	d.filter = filter
	d.mu.Unlock()

	policies, err := d.env.API.ListPolicies(ctx, filter)
	if err != nil {
		return d.env.report(ctx, fmt.Errorf("loading policies: %w", err))
	}

	voted := d.voteStatuses(ctx, policies)
	d.registry.Reconcile(policies, voted)
	return nil
}

// Show fetches one policy and renders it as the only card, checking this
// device's vote the same way Load does.
func (d *Dashboard) Show(ctx context.Context, id string) (view.Card, error) {
	p, err := d.env.API.GetPolicy(ctx, id)
	if err != nil {
		return view.Card{}, d.env.report(ctx, err)
	}
	policies := []api.Policy{*p}
	d.registry.Reconcile(policies, d.voteStatuses(ctx, policies))
	card, _ := d.registry.Card(p.ID)
	return card, nil
}

// Reload repeats the last Load.
func (d *Dashboard) Reload(ctx context.Context) error {
	d.mu.Lock()
	filter := d.filter
	d.mu.Unlock()
	return d.Load(ctx, filter)
}

func (d *Dashboard) voteStatuses(ctx context.Context, policies []api.Policy) *view.VoteCache {
	cache := view.NewVoteCache()
	if len(policies) == 0 {
		return cache
	}

	d.progress.Start(len(policies), "Checking votes")
	defer d.progress.Finish()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
		sem  = make(chan struct{}, statusWorkers)
	)
	for _, p := range policies {
		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()

			st, err := d.env.API.VoteStatus(ctx, id)
			if err != nil {
				log.Printf("controller: vote status for %s: %v", id, err)
				cache.Set(id, false)
			} else {
				cache.Set(id, st.DeviceHasVoted)
			}

			mu.Lock()
			done++
			d.progress.Update(done, id)
			mu.Unlock()
		}(p.ID)
	}
	wg.Wait()
	return cache
}

// Vote casts this device's vote on a rendered policy. The card's buttons
// are disabled while the request is in flight; on success the list is
// reloaded, on failure the buttons are re-enabled and counts are left as
// they were.
func (d *Dashboard) Vote(ctx context.Context, policyID string, vt api.VoteType) error {
	if err := d.registry.BeginVote(policyID, vt); err != nil {
		return err
	}

	if err := d.env.API.Vote(ctx, policyID, vt); err != nil {
		if ferr := d.registry.FailVote(policyID, api.UserMessage(err)); ferr != nil {
			log.Printf("controller: %s: %v", policyID, ferr)
		}
		return d.env.report(ctx, err)
	}

	if err := d.registry.CompleteVote(policyID); err != nil {
		log.Printf("controller: %s: %v", policyID, err)
	}
	d.env.success(d.env.Translator.T("vote_recorded"))

	if err := d.Reload(ctx); err != nil {
		log.Printf("controller: reload after vote: %v", err)
	}
	return nil
}

// ApplyVotes patches a rendered card from a push message.
func (d *Dashboard) ApplyVotes(policyID string, upvotes, downvotes int) bool {
	return d.registry.ApplyVotes(policyID, upvotes, downvotes)
}

// ApplyStatus patches a rendered card's status from a push message.
func (d *Dashboard) ApplyStatus(policyID string, status api.Status) bool {
	return d.registry.ApplyStatus(policyID, status)
}
