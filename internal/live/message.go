package live

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/ziadkadry99/policyvote/internal/api"
)

// Message types sent by the server.
const (
	TypeVoteUpdate   = "vote_update"
	TypePolicyUpdate = "policy_update"
)

// Message is one push message.
type Message struct {
	Type     string          `json:"type"`
	PolicyID string          `json:"policy_id"`
	Data     json.RawMessage `json:"data"`
}

// VoteData is the payload of a vote_update message.
type VoteData struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// StatusData is the payload of a policy_update message.
type StatusData struct {
	Status api.Status `json:"status"`
}

// Apply decodes data and applies it to h. Unknown message types are
// ignored. It reports whether a rendered card was patched.
func Apply(h Handler, data []byte) (bool, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return false, fmt.Errorf("decoding message: %w", err)
	}
	switch msg.Type {
	case TypeVoteUpdate:
		var v VoteData
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			return false, fmt.Errorf("decoding %s for %s: %w", msg.Type, msg.PolicyID, err)
		}
		return h.ApplyVotes(msg.PolicyID, v.Upvotes, v.Downvotes), nil
	case TypePolicyUpdate:
		var s StatusData
		if err := json.Unmarshal(msg.Data, &s); err != nil {
			return false, fmt.Errorf("decoding %s for %s: %w", msg.Type, msg.PolicyID, err)
		}
		return h.ApplyStatus(msg.PolicyID, s.Status), nil
	default:
		return false, nil
	}
}

func (c *Channel) dispatch(data []byte) {
	if _, err := Apply(c.handler, data); err != nil {
		log.Printf("live: %v", err)
	}
}
