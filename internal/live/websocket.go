package live

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// HeaderFunc supplies the handshake headers for each dial.
type HeaderFunc func(ctx context.Context) (http.Header, error)

// WebSocketDialer dials the push endpoint with gorilla/websocket.
type WebSocketDialer struct {
	URL    string
	Header HeaderFunc
	Dialer *websocket.Dialer
}

// Dial opens a websocket connection to d.URL.
func (d *WebSocketDialer) Dial(ctx context.Context) (Conn, error) {
	var header http.Header
	if d.Header != nil {
		h, err := d.Header(ctx)
		if err != nil {
			return nil, err
		}
		header = h
	}
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, d.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dialing %s: %w (status %d)", d.URL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dialing %s: %w", d.URL, err)
	}
	return conn, nil
}
