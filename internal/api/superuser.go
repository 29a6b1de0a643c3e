package api

import (
	"context"
	"net/http"
	"net/url"
)

// Users lists every account.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.Do(ctx, http.MethodGet, "/superuser/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser creates an account with any role.
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, http.MethodPost, "/superuser/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser replaces an account's code, role and active flag.
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) error {
	return c.Do(ctx, http.MethodPut, "/superuser/users/"+url.PathEscape(id), in, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/superuser/users/"+url.PathEscape(id), nil, nil)
}

// ToggleUser flips an account between active and inactive.
func (c *Client) ToggleUser(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodPost, "/superuser/users/"+url.PathEscape(id)+"/toggle", nil, nil)
}
