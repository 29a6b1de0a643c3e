package api

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// AdminStats returns the moderation counters.
func (c *Client) AdminStats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.Do(ctx, http.MethodGet, "/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminPolicies lists all policies, optionally filtered by status.
func (c *Client) AdminPolicies(ctx context.Context, status string) ([]Policy, error) {
	var out []Policy
	if err := c.Do(ctx, http.MethodGet, "/admin/policies"+query("status", status), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminPolicy fetches one policy with its admin-only fields.
func (c *Client) AdminPolicy(ctx context.Context, id string) (*Policy, error) {
	var out Policy
	if err := c.Do(ctx, http.MethodGet, "/admin/policies/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus moves a policy to status with an optional comment.
func (c *Client) UpdateStatus(ctx context.Context, id string, status Status, comment string) error {
	body := struct {
		Status  Status  `json:"status"`
		Comment *string `json:"comment"`
	}{Status: status, Comment: optional(comment)}
	return c.Do(ctx, http.MethodPost, "/admin/policies/"+url.PathEscape(id)+"/status", body, nil)
}

// SetComment replaces the admin comment without changing status.
// An empty comment clears it.
func (c *Client) SetComment(ctx context.Context, id, comment string) error {
	body := struct {
		Comment *string `json:"comment"`
	}{Comment: optional(comment)}
	return c.Do(ctx, http.MethodPost, "/admin/policies/"+url.PathEscape(id)+"/comment", body, nil)
}

// DeletePolicy removes a policy.
func (c *Client) DeletePolicy(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/admin/policies/"+url.PathEscape(id), nil, nil)
}

// BulkAction applies one action to several policies.
func (c *Client) BulkAction(ctx context.Context, req BulkRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, http.MethodPost, "/admin/policies/bulk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analytics returns the engagement report.
func (c *Client) Analytics(ctx context.Context) (*Analytics, error) {
	var out Analytics
	if err := c.Do(ctx, http.MethodGet, "/admin/analytics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuditLog returns the most recent audit entries. limit <= 0 uses the
// server default.
func (c *Client) AuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	l := ""
	if limit > 0 {
		l = strconv.Itoa(limit)
	}
	var out []AuditEntry
	if err := c.Do(ctx, http.MethodGet, "/admin/audit-log"+query("limit", l), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminCreateUser creates a student account. The server ignores the
// role and always creates a student.
func (c *Client) AdminCreateUser(ctx context.Context, in UserInput) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.Do(ctx, http.MethodPost, "/admin/users", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export downloads the policy spreadsheet. ids limits the export to
// those policies. The suggested file name comes from the server's
// Content-Disposition header when present.
func (c *Client) Export(ctx context.Context, format ExportFormat, ids []string) ([]byte, string, error) {
	if format != ExportCSV && format != ExportXLSX {
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
	route := "/admin/export/" + string(format) + query("ids", strings.Join(ids, ","))
	data, header, err := c.send(ctx, http.MethodGet, route, nil)
	if err != nil {
		return nil, "", err
	}
	name := "policies." + string(format)
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil {
		if base := safeFilename(params["filename"]); base != "" {
			name = base
		}
	}
	return data, name, nil
}

// safeFilename reduces a server-suggested name to its last element so
// it cannot point outside the current directory. It returns "" when
// nothing usable is left.
func safeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	switch base {
	case "", ".", "..", "/":
		return ""
	}
	return base
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
