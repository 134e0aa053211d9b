// Package client is a small HTTP client for the attendance server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/attendance/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// APIError is returned for any non-success response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Client talks to one server. The zero HTTP client is replaced by one with a
// request timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Signup registers a new user.
func (c *Client) Signup(ctx context.Context, username, password string) (string, error) {
	env, err := c.post(ctx, "/signup", "", map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Login returns an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	env, err := c.post(ctx, "/login", "", map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", errors.New("server returned no token")
	}
	return env.Token, nil
}

// MarkAttendance records name for today and returns the recorded date.
func (c *Client) MarkAttendance(ctx context.Context, token, name string) (string, error) {
	env, err := c.post(ctx, "/mark-attendance", token, map[string]string{"name": name})
	if err != nil {
		return "", err
	}
	return env.Date, nil
}

func (c *Client) post(ctx context.Context, path, token string, body any) (*envelope, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	env := &envelope{}
	if err := json.Unmarshal(data, env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || env.Status != "success" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return env, nil
}
