package api

import (
	"context"
	"net/http"
	"net/url"
)

// LoginWithCode exchanges a classroom code for a session token.
func (c *Client) LoginWithCode(ctx context.Context, code string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.Do(ctx, http.MethodPost, "/auth/code", map[string]string{"code": code}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPolicies returns the student-visible policies.
func (c *Client) ListPolicies(ctx context.Context, f PolicyFilter) ([]Policy, error) {
	q := query(
		"search", f.Search,
		"category", f.Category,
		"status", f.Status,
		"sort", f.Sort,
		"lang", f.Lang,
	)
	var out []Policy
	if err := c.Do(ctx, http.MethodGet, "/policies"+q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPolicy fetches one policy including this device's vote flag.
func (c *Client) GetPolicy(ctx context.Context, id string) (*Policy, error) {
	var out Policy
	if err := c.Do(ctx, http.MethodGet, "/policies/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePolicy submits a new policy for review.
func (c *Client) CreatePolicy(ctx context.Context, p NewPolicy) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, http.MethodPost, "/policies", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VoteStatus reports whether this device already voted on the policy.
func (c *Client) VoteStatus(ctx context.Context, policyID string) (*VoteStatus, error) {
	var out VoteStatus
	if err := c.Do(ctx, http.MethodGet, "/votes/status/"+url.PathEscape(policyID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Vote casts a vote from this device.
func (c *Client) Vote(ctx context.Context, policyID string, vt VoteType) error {
	body := map[string]string{"policy_id": policyID, "vote_type": string(vt)}
	return c.Do(ctx, http.MethodPost, "/votes", body, nil)
}

// Categories lists policy categories localized to lang.
func (c *Client) Categories(ctx context.Context, lang string) ([]Category, error) {
	var out []Category
	if err := c.Do(ctx, http.MethodGet, "/categories"+query("lang", lang), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
