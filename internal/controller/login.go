package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/auth"
)

// Login handles the login page.
type Login struct {
	env Env
}

// NewLogin creates the login controller.
func NewLogin(env Env) *Login {
	return &Login{env: env}
}

// Login exchanges a classroom code for a session and returns the page
// the user should land on.
func (l *Login) Login(ctx context.Context, code string) (auth.Page, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("login code: %w", ErrEmptyInput)
	}
	resp, err := l.env.API.LoginWithCode(ctx, code)
	if err != nil {
		if l.env.Notices != nil {
			l.env.Notices.Error(api.UserMessage(err))
		}
		return "", err
	}
	role, err := auth.ParseRole(resp.Role)
	if err != nil {
		return "", err
	}
	if err := l.env.Session.Save(ctx, resp.Token, role, resp.UserID); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}
	l.env.success("Login successful!")
	return auth.LandingPage(role), nil
}

// Logout clears the session.
func (l *Login) Logout(ctx context.Context) error {
	return l.env.Session.Clear(ctx)
}
