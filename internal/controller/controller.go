// Package controller drives the client's pages: it fetches through the
// API client, keeps the view state current and pushes user mutations
// back to the server.
package controller

import (
	"context"
	"errors"
	"log"

	"github.com/ziadkadry99/policyvote/internal/api"
	"github.com/ziadkadry99/policyvote/internal/auth"
	"github.com/ziadkadry99/policyvote/internal/notice"
	"github.com/ziadkadry99/policyvote/internal/prefs"
)

// Env is what every controller needs.
type Env struct {
	API        *api.Client
	Session    *auth.Store
	Notices    *notice.Board
	Translator prefs.Translator
}

// report surfaces err the way the page would. Auth failures clear the
// session and show nothing; rejections show the server's message; other
// failures show a generic message.
func (e Env) report(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if api.Classify(err) == api.KindAuth {
		if cerr := e.Session.Clear(ctx); cerr != nil {
			log.Printf("controller: clearing session: %v", cerr)
		}
		return err
	}
	if e.Notices != nil {
		e.Notices.Error(api.UserMessage(err))
	}
	return err
}

func (e Env) success(msg string) {
	if e.Notices != nil {
		e.Notices.Success(msg)
	}
}

// ErrEmptyInput is returned when a required form field is blank.
var ErrEmptyInput = errors.New("required field is empty")
