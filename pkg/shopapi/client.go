// Package shopapi is the HTTP client for the shop backend REST API.
//
// Every call attaches the bearer token returned by the configured TokenSource.
// A 401 or 403 answer invokes the OnUnauthorized callback, which is expected to
// clear the stored token, and surfaces as ErrUnauthorized.
package shopapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout bounds a backend call when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config holds backend connection details.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// TokenSource returns the bearer token for the user bound to ctx, or "" for
// anonymous calls.
type TokenSource func(ctx context.Context) string

// Client calls the shop backend.
type Client struct {
	baseURL        string
	timeout        time.Duration
	http           *fiber.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

// WriteResult is the acknowledgement the backend returns for mutations.
type WriteResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	InsertedID    string `json:"insertedId,omitempty"`
	ModifiedCount int    `json:"modifiedCount,omitempty"`
	DeletedCount  int    `json:"deletedCount,omitempty"`
}

// NewClient creates a backend client. tokens and onUnauthorized may be nil.
func NewClient(cfg Config, tokens TokenSource, onUnauthorized func(ctx context.Context)) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tokens == nil {
		tokens = func(context.Context) string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		http: &fiber.Client{
			UserAgent:   "storefront",
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		},
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
	}
}

func (c *Client) agent(method, url string) (*fiber.Agent, error) {
	switch method {
	case fiber.MethodGet:
		return c.http.Get(url), nil
	case fiber.MethodPost:
		return c.http.Post(url), nil
	case fiber.MethodPut:
		return c.http.Put(url), nil
	case fiber.MethodPatch:
		return c.http.Patch(url), nil
	case fiber.MethodDelete:
		return c.http.Delete(url), nil
	}
	return nil, fmt.Errorf("unsupported method %s", method)
}

// do sends one request and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a, err := c.agent(method, c.baseURL+path)
	if err != nil {
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}
	a.Timeout(timeout)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if token := c.tokens(ctx); token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		a.JSON(body)
	}

	status, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}

	if status < 200 || status >= 300 {
		apiErr := &APIError{Method: method, Path: path, Status: status, Message: errorMessage(respBody)}
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			log.Printf("[shopapi] %s %s rejected with %d, clearing session", method, path, status)
			if c.onUnauthorized != nil {
				c.onUnauthorized(ctx)
			}
		}
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {"message": "..."} from an error body, falling back to
// the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
