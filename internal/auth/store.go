// Package auth keeps the signed-in session and the device fingerprint in
// the local profile and decides which pages a session may open.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/policyvote/internal/kv"
)

// Role is the account role reported by the server at login.
type Role string

const (
	RoleStudent   Role = "student"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleStudent, RoleAdmin, RoleSuperuser:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Session is the signed-in identity held on this device.
type Session struct {
	Token  string
	Role   Role
	UserID string
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store persists the session and the device fingerprint.
type Store struct {
	kv  *kv.Store
	now func() time.Time
	env func() string

	mu          sync.Mutex
	fingerprint string
}

// NewStore creates a Store on top of the given key-value storage.
func NewStore(store *kv.Store) *Store {
	return &Store{kv: store, now: time.Now, env: hostEnvironment}
}

// Save persists token, role and user id in one write.
func (s *Store) Save(ctx context.Context, token string, role Role, userID string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	err := s.kv.SetMany(ctx, map[string]string{
		kv.KeyAuthToken: token,
		kv.KeyUserRole:  string(role),
		kv.KeyUserID:    userID,
	})
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the stored session. An absent session is the zero value.
func (s *Store) Load(ctx context.Context) (Session, error) {
	var sess Session
	token, _, err := s.kv.Get(ctx, kv.KeyAuthToken)
	if err != nil {
		return sess, err
	}
	role, _, err := s.kv.Get(ctx, kv.KeyUserRole)
	if err != nil {
		return sess, err
	}
	userID, _, err := s.kv.Get(ctx, kv.KeyUserID)
	if err != nil {
		return sess, err
	}
	sess.Token = token
	sess.Role = Role(role)
	sess.UserID = userID
	return sess, nil
}

// Token returns the bearer token, or "" when signed out.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, kv.KeyAuthToken)
	return token, err
}

// IsAuthenticated reports whether a token is stored.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Clear removes the session. The device fingerprint is kept.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, kv.KeyAuthToken, kv.KeyUserRole, kv.KeyUserID); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Authorize loads the session and applies check to it.
func (s *Store) Authorize(ctx context.Context, check func(Session) Decision) (Decision, Session, error) {
	sess, err := s.Load(ctx)
	if err != nil {
		return Decision{}, sess, err
	}
	return check(sess), sess, nil
}
