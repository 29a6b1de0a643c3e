package controller

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/draft"
)

// Submit handles the policy submission form and its draft.
type Submit struct {
	env      Env
	drafts   *draft.Store
	interval time.Duration

	autosaver *draft.Autosaver
}

// NewSubmit creates the submit controller. interval is the autosave
// period.
func NewSubmit(env Env, drafts *draft.Store, interval time.Duration) *Submit {
	return &Submit{env: env, drafts: drafts, interval: interval}
}

// Resume returns the saved draft if one is fresh enough to offer.
func (s *Submit) Resume(ctx context.Context) (*draft.Draft, bool, error) {
	return s.drafts.Load(ctx)
}

// Open starts autosaving form until Close, Submit or Discard.
func (s *Submit) Open(ctx context.Context, form draft.Form) {
	if s.autosaver != nil {
		s.autosaver.Halt()
	}
	s.autosaver = draft.NewAutosaver(s.drafts, form, s.interval)
	s.autosaver.Start(ctx)
}

// Close stops autosaving and saves the form one last time, as leaving
// the page does.
func (s *Submit) Close(ctx context.Context) error {
	if s.autosaver == nil {
		return nil
	}
	err := s.autosaver.Stop(ctx)
	s.autosaver = nil
	return err
}

// Submit sends the policy. On success the draft is removed; on failure
// it is kept so the user can retry.
func (s *Submit) Submit(ctx context.Context, p api.NewPolicy) (*api.MessageResponse, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	if p.Title == "" || p.Description == "" {
		return nil, fmt.Errorf("title and description: %w", ErrEmptyInput)
	}

	resp, err := s.env.API.CreatePolicy(ctx, p)
	if err != nil {
		return nil, s.env.report(ctx, err)
	}

	s.halt()
	if err := s.drafts.Clear(ctx); err != nil {
		log.Printf("controller: clearing draft: %v", err)
	}
	s.env.success(resp.Message)
	return resp, nil
}

// Discard drops the draft and stops autosaving.
func (s *Submit) Discard(ctx context.Context) error {
	s.halt()
	return s.drafts.Clear(ctx)
}

func (s *Submit) halt() {
	if s.autosaver != nil {
		s.autosaver.Halt()
		s.autosaver = nil
	}
}
