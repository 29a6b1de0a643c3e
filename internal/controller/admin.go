package controller

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/auth"
)

// Bulk actions accepted by the server.
const (
	BulkApprove         = "approve"
	BulkReject          = "reject"
	BulkUncertain       = "uncertain"
	BulkInProgress      = "in_progress"
	BulkCompleted       = "completed"
	BulkOnHold          = "on_hold"
	BulkCannotImplement = "cannot_implement"
	BulkDelete          = "delete"
	BulkSetCategory     = "set_category"
)

var bulkActions = map[string]bool{
	BulkApprove: true, BulkReject: true, BulkUncertain: true, BulkInProgress: true,
	BulkCompleted: true, BulkOnHold: true, BulkCannotImplement: true, BulkDelete: true,
	BulkSetCategory: true,
}

// Admin handles moderation. Every mutation is followed by a refetch of
// the list and the stats; nothing is patched locally.
type Admin struct {
	env Env

	mu       sync.Mutex
	status   string
	policies []api.Policy
	stats    *api.Stats
}

// NewAdmin creates the admin controller.
func NewAdmin(env Env) *Admin {
	return &Admin{env: env}
}

// Filter sets the status filter used by Refresh. Empty lists every status.
func (a *Admin) Filter(status string) error {
	if status != "" && !api.ValidStatus(status) {
		return fmt.Errorf("unknown status %q", status)
	}
	a.mu.Lock()
	a.status = status
	a.mu.Unlock()
	return nil
}

// Policies returns the list from the last refresh.
func (a *Admin) Policies() []api.Policy {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.policies
}

// Stats returns the counters from the last refresh, or nil when they
// could not be loaded.
func (a *Admin) Stats() *api.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Refresh reloads the list and the stats. A stats failure is only
// logged.
func (a *Admin) Refresh(ctx context.Context) error {
	a.mu.Lock()
	status := a.status
	a.mu.Unlock()

	stats, err := a.env.API.AdminStats(ctx)
	if err != nil {
		log.Printf("controller: loading stats: %v", err)
	}
	policies, perr := a.env.API.AdminPolicies(ctx, status)

	a.mu.Lock()
	a.stats = stats
	if perr == nil {
		a.policies = policies
	}
	a.mu.Unlock()

	if perr != nil {
		return a.env.report(ctx, fmt.Errorf("loading policies: %w", perr))
	}
	return nil
}

// Show fetches one policy for review. It reads only, so no refresh
// follows.
func (a *Admin) Show(ctx context.Context, id string) (*api.Policy, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("policy id: %w", ErrEmptyInput)
	}
	p, err := a.env.API.AdminPolicy(ctx, id)
	if err != nil {
		return nil, a.env.report(ctx, err)
	}
	return p, nil
}

// CreateStudent adds a student account with a login code. The stats
// count active students, so a refresh follows.
func (a *Admin) CreateStudent(ctx context.Context, code string, active bool) error {
	in, err := userInput(code, auth.RoleStudent, active)
	if err != nil {
		return err
	}
	var msg string
	err = a.mutate(ctx, "", func() error {
		resp, err := a.env.API.AdminCreateUser(ctx, in)
		if err == nil {
			msg = resp.Message
		}
		return err
	})
	if err == nil {
		if msg == "" {
			msg = "User created successfully"
		}
		a.env.success(msg)
	}
	return err
}

// SetStatus moves a policy to status with an optional comment.
func (a *Admin) SetStatus(ctx context.Context, id string, status api.Status, comment string) error {
	if !api.ValidStatus(string(status)) {
		return fmt.Errorf("unknown status %q", status)
	}
	return a.mutate(ctx, "Policy updated successfully!", func() error {
		return a.env.API.UpdateStatus(ctx, id, status, strings.TrimSpace(comment))
	})
}

// Comment sets or clears the admin comment without changing status.
func (a *Admin) Comment(ctx context.Context, id, comment string) error {
	return a.mutate(ctx, "Policy updated successfully!", func() error {
		return a.env.API.SetComment(ctx, id, strings.TrimSpace(comment))
	})
}

// Delete removes one policy.
func (a *Admin) Delete(ctx context.Context, id string) error {
	return a.mutate(ctx, "Policy deleted", func() error {
		return a.env.API.DeletePolicy(ctx, id)
	})
}

// Bulk applies action to ids. categoryID is only used by set_category.
func (a *Admin) Bulk(ctx context.Context, action string, ids []string, categoryID string) error {
	if !bulkActions[action] {
		return fmt.Errorf("unknown bulk action %q", action)
	}
	if len(ids) == 0 {
		return fmt.Errorf("policy ids: %w", ErrEmptyInput)
	}
	if action == BulkSetCategory && categoryID == "" {
		return fmt.Errorf("category id: %w", ErrEmptyInput)
	}
	req := api.BulkRequest{PolicyIDs: ids, Action: action}
	if action == BulkSetCategory {
		req.CategoryID = &categoryID
	}
	var msg string
	err := a.mutate(ctx, "", func() error {
		resp, err := a.env.API.BulkAction(ctx, req)
		if err == nil {
			msg = resp.Message
		}
		return err
	})
	if err == nil && msg != "" {
		a.env.success(msg)
	}
	return err
}

// BulkDelete removes several policies.
func (a *Admin) BulkDelete(ctx context.Context, ids []string) error {
	return a.Bulk(ctx, BulkDelete, ids, "")
}

// Export downloads the list as a spreadsheet. It does not change server
// state, so no refresh follows.
func (a *Admin) Export(ctx context.Context, format api.ExportFormat, ids []string) ([]byte, string, error) {
	data, name, err := a.env.API.Export(ctx, format, ids)
	if err != nil {
		return nil, "", a.env.report(ctx, err)
	}
	return data, name, nil
}

// Analytics returns the engagement report.
func (a *Admin) Analytics(ctx context.Context) (*api.Analytics, error) {
	out, err := a.env.API.Analytics(ctx)
	if err != nil {
		return nil, a.env.report(ctx, err)
	}
	return out, nil
}

// AuditLog returns the latest audit entries.
func (a *Admin) AuditLog(ctx context.Context, limit int) ([]api.AuditEntry, error) {
	out, err := a.env.API.AuditLog(ctx, limit)
	if err != nil {
		return nil, a.env.report(ctx, err)
	}
	return out, nil
}

func (a *Admin) mutate(ctx context.Context, okMsg string, call func() error) error {
	err := call()
	if err != nil {
		err = a.env.report(ctx, err)
	} else if okMsg != "" {
		a.env.success(okMsg)
	}
	if rerr := a.Refresh(ctx); rerr != nil {
		log.Printf("controller: refresh after admin action: %v", rerr)
	}
	return err
}
