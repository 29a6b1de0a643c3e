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

// Superuser handles account management. Like Admin it refetches after
// every mutation.
type Superuser struct {
	env Env

	mu    sync.Mutex
	users []api.User
}

// NewSuperuser creates the superuser controller.
func NewSuperuser(env Env) *Superuser {
	return &Superuser{env: env}
}

// Users returns the list from the last refresh.
func (s *Superuser) Users() []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users
}

// Refresh reloads the account list.
func (s *Superuser) Refresh(ctx context.Context) error {
	users, err := s.env.API.Users(ctx)
	if err != nil {
		return s.env.report(ctx, fmt.Errorf("loading users: %w", err))
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// Create adds an account.
func (s *Superuser) Create(ctx context.Context, code string, role auth.Role) error {
	in, err := userInput(code, role, true)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "User created", func() error {
		_, err := s.env.API.CreateUser(ctx, in)
		return err
	})
}

// Update replaces an account's code, role and active flag.
func (s *Superuser) Update(ctx context.Context, id, code string, role auth.Role, active bool) error {
	in, err := userInput(code, role, active)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "User updated", func() error {
		return s.env.API.UpdateUser(ctx, id, in)
	})
}

// Delete removes an account.
func (s *Superuser) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "User deleted", func() error {
		return s.env.API.DeleteUser(ctx, id)
	})
}

// Toggle flips an account between active and inactive.
func (s *Superuser) Toggle(ctx context.Context, id string) error {
	return s.mutate(ctx, "Status updated", func() error {
		return s.env.API.ToggleUser(ctx, id)
	})
}

func (s *Superuser) mutate(ctx context.Context, okMsg string, call func() error) error {
	err := call()
	if err != nil {
		err = s.env.report(ctx, err)
	} else {
		s.env.success(okMsg)
	}
	if rerr := s.Refresh(ctx); rerr != nil {
		log.Printf("controller: refresh after user action: %v", rerr)
	}
	return err
}

func userInput(code string, role auth.Role, active bool) (api.UserInput, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return api.UserInput{}, fmt.Errorf("login code: %w", ErrEmptyInput)
	}
	if _, err := auth.ParseRole(string(role)); err != nil {
		return api.UserInput{}, err
	}
	return api.UserInput{LoginCode: code, Role: string(role), IsActive: active}, nil
}
