package view

import (
	"errors"

	"github.com/ziadkadry99/policyvote/internal/api"
)

// State is where a card is in the voting flow.
type State int

const (
	StateUnvoted State = iota
	StateVoted
	StateVoteInFlight
	StateVoteFailed
)

func (s State) String() string {
	switch s {
	case StateUnvoted:
		return "unvoted"
	case StateVoted:
		return "voted"
	case StateVoteInFlight:
		return "vote-in-flight"
	case StateVoteFailed:
		return "vote-failed"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownPolicy is returned for ids that are not rendered.
	ErrUnknownPolicy = errors.New("policy is not on the current page")
	// ErrVoteLocked is returned when a card's vote buttons are disabled.
	ErrVoteLocked = errors.New("voting is disabled for this policy")
	// ErrNoVoteInFlight is returned when completing a vote that was
	// never started.
	ErrNoVoteInFlight = errors.New("no vote in flight for this policy")
)

// Card is the rendered state of one policy.
type Card struct {
	Policy api.Policy
	State  State
	// Pending is the vote direction while a vote is in flight.
	Pending api.VoteType
	// LastError is the server's message from the last failed vote.
	LastError string
}

// ButtonsDisabled reports whether both vote buttons are disabled.
func (c Card) ButtonsDisabled() bool {
	return c.State == StateVoted || c.State == StateVoteInFlight
}

// Bar returns the card's current vote split.
func (c Card) Bar() VoteBar {
	return Bar(c.Policy.Upvotes, c.Policy.Downvotes)
}

func (c *Card) beginVote(vt api.VoteType) error {
	if c.ButtonsDisabled() {
		return ErrVoteLocked
	}
	c.State = StateVoteInFlight
	c.Pending = vt
	c.LastError = ""
	return nil
}

func (c *Card) completeVote() error {
	if c.State != StateVoteInFlight {
		return ErrNoVoteInFlight
	}
	c.State = StateVoted
	c.Pending = ""
	return nil
}

func (c *Card) failVote(msg string) error {
	if c.State != StateVoteInFlight {
		return ErrNoVoteInFlight
	}
	c.State = StateVoteFailed
	c.Pending = ""
	c.LastError = msg
	return nil
}
