// Package api is the REST client for the policy-voting service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	headerFingerprint = "X-Device-Fingerprint"
	defaultPrefix     = "/api/v1"
)

// Credentials supplies the per-request auth material.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	DeviceFingerprint(ctx context.Context) (string, error)
}

// Client calls the REST API. It never retries; callers decide whether
// to re-request.
type Client struct {
	BaseURL     string
	Prefix      string
	HTTP        *http.Client
	Credentials Credentials
}

// New creates a client for the server at baseURL.
func New(baseURL string, creds Credentials) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Prefix:      defaultPrefix,
		HTTP:        &http.Client{},
		Credentials: creds,
	}
}

// Do sends a JSON request and decodes a 2xx JSON response into out.
// out may be nil when the body is not needed; the body must then be
// empty or valid JSON.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	data, _, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(data)
	if out == nil {
		// Acknowledgements may be empty but never a non-JSON page.
		if len(trimmed) > 0 && !json.Valid(trimmed) {
			return fmt.Errorf("%w: %s %s: response is not JSON", ErrParse, method, path)
		}
		return nil
	}
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: %s %s: empty response", ErrParse, method, path)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrParse, method, path, err)
	}
	return nil
}

// send performs the request and returns the raw 2xx body.
func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, http.Header, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshalling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+c.Prefix+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	if err := c.setHeaders(ctx, req.Header); err != nil {
		return nil, nil, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading response: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &Error{Status: resp.StatusCode, Message: serverMessage(data)}
	}
	return data, resp.Header, nil
}

// Headers returns the headers every request carries. The push channel
// reuses them for its handshake.
func (c *Client) Headers(ctx context.Context) (http.Header, error) {
	h := http.Header{}
	if err := c.setHeaders(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (c *Client) setHeaders(ctx context.Context, h http.Header) error {
	h.Set("Content-Type", "application/json")
	if c.Credentials == nil {
		return nil
	}
	fp, err := c.Credentials.DeviceFingerprint(ctx)
	if err != nil {
		return fmt.Errorf("device fingerprint: %w", err)
	}
	h.Set(headerFingerprint, fp)

	token, err := c.Credentials.Token(ctx)
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// WebSocketURL derives the push channel address from the base URL.
func (c *Client) WebSocketURL(path string) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String(), nil
}

// serverMessage extracts the error text from a failure body.
func serverMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return "Request failed"
}

// query encodes non-empty pairs as a query string, including the '?'.
func query(pairs ...string) string {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			v.Set(pairs[i], pairs[i+1])
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
