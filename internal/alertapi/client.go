// Package alertapi talks to the remote alerts service over HTTP.
package alertapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	"github.com/alexisbeaulieu97/weatherlens/internal/logger"
	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

const (
	// DefaultTimeout bounds every request when no http.Client is supplied.
	DefaultTimeout = 10 * time.Second

	defaultUserAgent = "weatherlens"
	maxErrorBody     = 64 << 10
)

// Operation names reported in SyncError.Op.
const (
	OpList   = "list"
	OpCreate = "create"
	OpDelete = "delete"
)

// Client lists, creates and deletes alert rules. It performs no retries.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       *logger.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("alerts service base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse alerts service base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("alerts service base URL %q must use http or https", baseURL)
	}

	c := &Client{
		baseURL:   parsed,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type listResponse struct {
	Alerts []alert.Rule `json:"alerts"`
}

// List returns the rules registered for city in the order the service sent
// them. A 404 means the city has no rules and yields an empty slice.
func (c *Client) List(ctx context.Context, city string) ([]alert.Rule, error) {
	resp, err := c.do(ctx, OpList, http.MethodGet, c.endpoint("api", "alerts", city), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return []alert.Rule{}, nil
	}
	if !isSuccess(resp.StatusCode) {
		return nil, statusError(OpList, resp)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, wlerrors.NewSyncError(wlerrors.ServerError, OpList, resp.StatusCode, "malformed list response", err)
	}
	if payload.Alerts == nil {
		payload.Alerts = []alert.Rule{}
	}
	return payload.Alerts, nil
}

// Create submits draft and returns the rule the service stored. The response
// may be the bare rule or an {"alert": rule} envelope.
func (c *Client) Create(ctx context.Context, draft alert.Draft) (alert.Rule, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return alert.Rule{}, fmt.Errorf("encode alert draft: %w", err)
	}

	resp, err := c.do(ctx, OpCreate, http.MethodPost, c.endpoint("api", "alerts"), body)
	if err != nil {
		return alert.Rule{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return alert.Rule{}, statusError(OpCreate, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return alert.Rule{}, wlerrors.NewSyncError(wlerrors.Network, OpCreate, resp.StatusCode, "", err)
	}
	rule, err := decodeCreated(data)
	if err != nil {
		return alert.Rule{}, wlerrors.NewSyncError(wlerrors.ServerError, OpCreate, resp.StatusCode, "malformed create response", err)
	}
	return rule, nil
}

// Delete removes the rule id from city. Any 2xx is success; 404 reports NotFound.
func (c *Client) Delete(ctx context.Context, city, id string) error {
	resp, err := c.do(ctx, OpDelete, http.MethodDelete, c.endpoint("api", "alerts", city, id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	switch {
	case isSuccess(resp.StatusCode):
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return wlerrors.NewSyncError(wlerrors.NotFound, OpDelete, resp.StatusCode, fmt.Sprintf("alert %s not found for %s", id, city), nil)
	default:
		return statusError(OpDelete, resp)
	}
}

// endpoint joins path segments onto the base URL, escaping each one.
func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	u := *c.baseURL
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	if path, err := url.PathUnescape(u.RawPath); err == nil {
		u.Path = path
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, op, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	fields := map[string]any{
		"op":          op,
		"method":      method,
		"url":         target,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		c.log.WithFields(fields).Error(err, "alerts request failed")
		return nil, wlerrors.NewSyncError(wlerrors.Network, op, 0, "", err)
	}

	fields["status"] = resp.StatusCode
	c.log.WithFields(fields).Debug("alerts request completed")
	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// statusError builds a ServerError from a non-2xx response, preferring the
// service's own message or error field.
func statusError(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := http.StatusText(resp.StatusCode)
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		switch {
		case payload.Message != "":
			message = payload.Message
		case payload.Error != "":
			message = payload.Error
		}
	}
	if message == "" {
		message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}

	return wlerrors.NewSyncError(wlerrors.ServerError, op, resp.StatusCode, message, nil)
}

func decodeCreated(data []byte) (alert.Rule, error) {
	var envelope struct {
		Alert json.RawMessage `json:"alert"`
	}
	raw := data
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Alert) > 0 && string(envelope.Alert) != "null" {
		raw = envelope.Alert
	}

	var rule alert.Rule
	if err := json.Unmarshal(raw, &rule); err != nil {
		return alert.Rule{}, err
	}
	if rule.ID == "" {
		return alert.Rule{}, fmt.Errorf("created alert has no id")
	}
	return rule, nil
}
