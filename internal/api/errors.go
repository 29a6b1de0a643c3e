package api

import (
	"errors"
	"net/http"
)

var (
	// ErrNetwork wraps transport failures: the request never got an answer.
	ErrNetwork = errors.New("network failure")
	// ErrParse wraps responses whose body could not be decoded.
	ErrParse = errors.New("malformed response")
	// ErrUnauthorized matches any *Error with status 401.
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a non-2xx response carrying the server's message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Kind groups failures the way the UI treats them.
type Kind int

const (
	KindNone Kind = iota
	// KindAuth: the session is invalid; send the user to login.
	KindAuth
	// KindRejected: the server refused the request; show its message.
	KindRejected
	// KindNetwork: no response; show a generic error.
	KindNetwork
	// KindParse: unreadable response; show a generic error.
	KindParse
)

// Classify maps err onto the UI error taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrUnauthorized) {
		return KindAuth
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return KindRejected
	}
	if errors.Is(err, ErrParse) {
		return KindParse
	}
	return KindNetwork
}

// UserMessage returns the text a banner should show for err.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindRejected, KindAuth:
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return "Request failed"
	case KindParse:
		return "Unexpected response from server"
	default:
		return "Could not reach the server"
	}
}
