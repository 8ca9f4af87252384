// Package api is the HTTP client of the VitalsKeeper dashboard.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/certgen"
	"github.com/atinyakov/VitalsKeeper/internal/models"
)

// Error is a non-success reply from the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server,
// meaning the stored session must be renewed.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client talks to the VitalsKeeper REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// NewClient returns a Client for baseURL, e.g. "http://localhost:8080".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTLSClient returns a Client that trusts only the CA certificate at
// caPath, as written by tools/certgen.
func NewTLSClient(baseURL, caPath string) (*Client, error) {
	pool, err := certgen.LoadCertPool(caPath)
	if err != nil {
		return nil, err
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		},
	}
	return NewClient(baseURL, WithHTTPClient(&http.Client{Transport: transport, Timeout: 10 * time.Second})), nil
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.UserSummary, error) {
	var out struct {
		Message string             `json:"message"`
		User    models.UserSummary `json:"user"`
	}
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", in, &out, http.StatusCreated); err != nil {
		return models.UserSummary{}, err
	}
	return out.User, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", in, &out, http.StatusOK); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// SubmitVitals records a reading for the token's owner.
func (c *Client) SubmitVitals(ctx context.Context, token string, fields models.VitalFields) (*models.Reading, error) {
	var out models.Reading
	if err := c.do(ctx, http.MethodPost, "/vitals", token, fields, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListVitals returns the token owner's readings, oldest first.
// rng is passed as the range filter ("24h", "7d"); empty means all.
func (c *Client) ListVitals(ctx context.Context, token, rng string) ([]models.Reading, error) {
	path := "/vitals"
	if rng != "" {
		path += "?" + url.Values{"range": {rng}}.Encode()
	}
	out := []models.Reading{}
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any, want int) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &Error{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
