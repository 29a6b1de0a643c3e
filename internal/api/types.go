package api

import (
	"encoding/json"
	"time"
)

// Status is a policy lifecycle state as reported by the server.
type Status string

const (
	StatusPending         Status = "pending"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusUncertain       Status = "uncertain"
	StatusInProgress      Status = "in_progress"
	StatusCompleted       Status = "completed"
	StatusOnHold          Status = "on_hold"
	StatusCannotImplement Status = "cannot_implement"
)

// Statuses lists every status an admin may assign.
var Statuses = []Status{
	StatusPending, StatusApproved, StatusRejected, StatusUncertain,
	StatusInProgress, StatusCompleted, StatusOnHold, StatusCannotImplement,
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if string(v) == s {
			return true
		}
	}
	return false
}

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// Policy is the client's read-only view of a server policy record.
type Policy struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Status          Status    `json:"status"`
	Upvotes         int       `json:"upvotes"`
	Downvotes       int       `json:"downvotes"`
	CategoryID      string    `json:"category_id,omitempty"`
	CategoryName    string    `json:"category_name,omitempty"`
	AdminComment    string    `json:"admin_comment,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	CurrentUserVote bool      `json:"current_user_vote,omitempty"`
	ViewCount       int       `json:"view_count,omitempty"`
}

// PolicyFilter narrows a policy listing. Empty fields are omitted.
type PolicyFilter struct {
	Search   string
	Category string
	Status   string
	Sort     string
	Lang     string
}

// LoginResponse is returned by a successful code login.
type LoginResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID string `json:"user_id"`
}

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Status  string `json:"status,omitempty"`
}

// VoteStatus reports whether this device already voted on a policy.
type VoteStatus struct {
	DeviceHasVoted bool `json:"device_has_voted"`
}

// NewPolicy is the body of a policy submission.
type NewPolicy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id,omitempty"`
}

// Category is a policy category localized by the server.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Stats are the admin dashboard counters.
type Stats struct {
	TotalPolicies   int `json:"total_policies"`
	PendingPolicies int `json:"pending_policies"`
	TotalVotes      int `json:"total_votes"`
	ActiveStudents  int `json:"active_students"`
}

// BulkRequest applies one action to many policies.
type BulkRequest struct {
	PolicyIDs  []string `json:"policy_ids"`
	Action     string   `json:"action"`
	CategoryID *string  `json:"category_id,omitempty"`
}

// Analytics is the admin engagement report.
type Analytics struct {
	TotalPolicies        int             `json:"total_policies"`
	TotalVotes           int             `json:"total_votes"`
	TotalComments        int             `json:"total_comments"`
	ParticipationRate    float64         `json:"participation_rate"`
	PolicySuccessRate    float64         `json:"policy_success_rate"`
	VotingTrends         []TrendPoint    `json:"voting_trends"`
	TopClassrooms        []Classroom     `json:"top_classrooms"`
	CategoryDistribution []CategoryStats `json:"category_distribution"`
}

// TrendPoint is a daily vote count.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Classroom is the engagement of one login code.
type Classroom struct {
	LoginCode       string  `json:"login_code"`
	VoteCount       int     `json:"vote_count"`
	CommentCount    int     `json:"comment_count"`
	PolicyCount     int     `json:"policy_count"`
	EngagementScore float64 `json:"engagement_score"`
}

// CategoryStats counts policies and votes per category.
type CategoryStats struct {
	CategoryName string `json:"category_name"`
	PolicyCount  int    `json:"policy_count"`
	VoteCount    int    `json:"vote_count"`
}

// AuditEntry is one admin audit log record.
type AuditEntry struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id,omitempty"`
	UserCode   string          `json:"user_code,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// User is an account as seen by the superuser.
type User struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	LoginCode string    `json:"login_code,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserInput is the body for creating or updating an account.
type UserInput struct {
	LoginCode string `json:"login_code"`
	Role      string `json:"role,omitempty"`
	IsActive  bool   `json:"is_active"`
}

// ExportFormat selects the admin export file type.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)
