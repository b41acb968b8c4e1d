// Package api is the HTTP layer between the application store and the
// backend: an authenticated JSON client plus one typed client per resource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTimeout bounds every request unless the caller picks another.
const DefaultTimeout = 10 * time.Second

// Session supplies the bearer token and is cleared on a 401.
type Session interface {
	// Token returns the credential to send, if any.
	Token() (string, bool)

	// Clear drops every stored credential.
	Clear() error
}

// Doer issues a single JSON request. Domain clients depend on this rather
// than on *Client so tests can substitute fakes.
type Doer interface {
	Do(ctx context.Context, method, path string, body, result any) error
}

// Client is a thin HTTP client for the planner backend. It attaches the
// session's bearer token to every call, classifies failures into *Error,
// and clears the session on 401. Each call is attempted exactly once.
type Client struct {
	baseURL    string
	session    Session
	httpClient *http.Client
}

// NewClient creates a Client. baseURL is the backend root (for example
// http://localhost:8080). A non-positive timeout selects DefaultTimeout.
func NewClient(baseURL string, session Session, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the backend root URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals the
// JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPut, path, body, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do builds the request, attaches auth, sends it once, and decodes the
// response into result when result is non-nil.
func (c *Client) Do(
	ctx context.Context,
	method string,
	path string,
	body any,
	result any,
) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Method: method, Path: path, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if clearErr := c.session.Clear(); clearErr != nil {
			log.Printf("[api] clearing session after 401: %v", clearErr)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: serverMessage(respBody),
		}
	}

	// No content to parse (e.g. 204 or an empty DELETE body).
	if result == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return &Error{
			Kind:    KindApplication,
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: "malformed response body",
			Err:     err,
		}
	}

	return nil
}

// errorBody covers the shapes the backend uses for failures.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// serverMessage extracts a human-readable message from an error response,
// falling back to the raw text for non-JSON bodies.
func serverMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	var eb errorBody
	if json.Unmarshal(trimmed, &eb) == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
		return ""
	}

	const maxLen = 200
	text := string(trimmed)
	if len(text) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
