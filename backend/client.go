// Package backend is the HTTP client for the NyayaSetu research services:
// the legal backend (agent, comparator, case-law search) and the document
// backend (ingest and question answering)
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultLegalURL = "http://localhost:8000"
	DefaultDocURL   = "http://localhost:8001"

	defaultTimeout = 120 * time.Second

	// Backend error bodies are small; anything larger is not worth reading
	maxErrorBody = 64 * 1024
)

// Client calls the research backends. It never retries: every failure is
// returned to the caller as a BackendError or TransportError
type Client struct {
	legalURL   string
	docURL     string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option is a functional option for Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the given backend base URLs
func NewClient(legalURL, docURL string, opts ...Option) *Client {
	if legalURL == "" {
		legalURL = DefaultLegalURL
	}
	if docURL == "" {
		docURL = DefaultDocURL
	}
	c := &Client{
		legalURL:   strings.TrimRight(legalURL, "/"),
		docURL:     strings.TrimRight(docURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the common shape of backend failures. FastAPI puts the
// message in "detail" (a string, or a list for validation errors); the
// document service uses "error"
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

func (e errorBody) message() string {
	if e.Error != "" {
		return e.Error
	}
	var detail string
	if len(e.Detail) > 0 && json.Unmarshal(e.Detail, &detail) == nil {
		return detail
	}
	return ""
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any, fallback string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out, fallback)
}

func (c *Client) do(req *http.Request, out any, fallback string) error {
	endpoint := req.URL.Path
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable", zap.String("endpoint", endpoint), zap.Error(err))
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("close response body", zap.String("endpoint", endpoint), zap.Error(closeErr))
		}
	}()

	c.logger.Debug("backend call",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := fallback
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil && eb.message() != "" {
			msg = eb.message()
		}
		return &BackendError{Endpoint: endpoint, Status: resp.StatusCode, Message: msg}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("read response: %w", err)}
	}

	var eb errorBody
	if json.Unmarshal(respBody, &eb) == nil && eb.message() != "" {
		return &BackendError{Endpoint: endpoint, Status: resp.StatusCode, Message: eb.message()}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
