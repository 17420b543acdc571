// Package backend is the HTTP client for the remote store REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// IdempotencyKeyHeader carries a per-attempt key on order placement
const IdempotencyKeyHeader = "Idempotency-Key"

// Config configures the backend client
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	MaxResponse    int64
}

// Validate checks the configuration
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend: base url %q must be absolute", c.BaseURL)
	}
	if c.MaxRetries < 0 {
		return errors.New("backend: max retries cannot be negative")
	}
	return nil
}

// Client talks to the store backend. Every request is resolved against a
// single base URL; authenticated calls carry the bearer token.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	retryDelay  time.Duration
	maxResponse int64
	metrics     *telemetry.Metrics
	logger      *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMetrics records per-call metrics
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a backend client
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, _ := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))

	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 200 * time.Millisecond
	}
	if cfg.MaxResponse <= 0 {
		cfg.MaxResponse = 10 << 20
	}
	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter:     rate.NewLimiter(limit, burst),
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryBaseDelay,
		maxResponse: cfg.MaxResponse,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("backend")
	return c, nil
}

// BaseURL returns the resolved base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// request describes one backend call
type request struct {
	endpoint    string // metric/span name, e.g. "cart.fetch"
	method      string
	path        string
	token       string
	body        any
	rawBody     []byte
	contentType string
	headers     map[string]string
	out         any
	retryable   bool
}

// errorPayload is the backend's error body
type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, r request) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "backend", r.endpoint,
		telemetry.AttrEndpoint, r.method+" "+r.path)
	defer span.End()

	payload := r.rawBody
	if payload == nil && r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("backend: failed to marshal %s request: %w", r.endpoint, err)
		}
		payload = b
		if r.contentType == "" {
			r.contentType = "application/json"
		}
	}

	attempt := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(shared.WrapDomainError(shared.CodeNetwork, shared.ErrNetwork.Message, err))
		}
		err := c.send(ctx, r, payload)
		if err != nil && !(r.retryable && isTransient(err)) {
			return backoff.Permanent(err)
		}
		return err
	}

	var err error
	if r.retryable && c.maxRetries > 0 {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = c.retryDelay
		b.MaxInterval = 10 * c.retryDelay
		policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)
		err = backoff.RetryNotify(attempt, policy, func(err error, wait time.Duration) {
			c.metrics.ObserveRetry(r.endpoint)
			logger.L(ctx, c.logger).Debug("retrying backend call",
				zap.String("endpoint", r.endpoint),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		})
	} else {
		err = attempt()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
	}

	if err != nil {
		if shared.CodeOf(err) == "" {
			err = shared.WrapDomainError(shared.CodeNetwork, shared.ErrNetwork.Message, err)
		}
		telemetry.RecordError(span, err)
		logger.L(ctx, c.logger).Warn("backend call failed",
			zap.String("endpoint", r.endpoint),
			zap.String("code", shared.CodeOf(err)),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) send(ctx context.Context, r request, payload []byte) error {
	start := time.Now()
	outcome := telemetry.OutcomeOK
	defer func() {
		c.metrics.ObserveBackendCall(r.endpoint, r.method, outcome, time.Since(start))
	}()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL.String()+r.path, body)
	if err != nil {
		outcome = telemetry.OutcomeNetwork
		return fmt.Errorf("backend: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = telemetry.OutcomeNetwork
		return shared.WrapDomainError(shared.CodeNetwork, shared.ErrNetwork.Message, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponse))
	if err != nil {
		outcome = telemetry.OutcomeNetwork
		return shared.WrapDomainError(shared.CodeNetwork, shared.ErrNetwork.Message, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		derr := classifyStatus(resp.StatusCode, data)
		switch shared.CodeOf(derr) {
		case shared.CodeUnauthorized:
			outcome = telemetry.OutcomeAuth
		case shared.CodeNotFound:
			outcome = telemetry.OutcomeNotFound
		default:
			outcome = telemetry.OutcomeServerError
		}
		return derr
	}

	if r.out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, r.out); err != nil {
			outcome = telemetry.OutcomeServerError
			return shared.WrapDomainError(shared.CodeServer, "The store sent an unexpected response", err)
		}
	}
	return nil
}

// statusError keeps the HTTP status alongside the domain error for retry decisions
type statusError struct {
	*shared.DomainError
	status int
}

func (e *statusError) Unwrap() error { return e.DomainError }

// classifyStatus maps a non-2xx response to the error taxonomy
func classifyStatus(status int, body []byte) error {
	var p errorPayload
	_ = json.Unmarshal(body, &p)
	msg := p.Message
	if msg == "" {
		msg = p.Error
	}

	var de *shared.DomainError
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg == "" {
			msg = shared.ErrUnauthorized.Message
		}
		de = shared.NewAuthError(msg)
	case status == http.StatusNotFound:
		if msg == "" {
			msg = shared.ErrNotFound.Message
		}
		de = shared.NewNotFoundError(msg)
	default:
		if msg == "" {
			msg = fmt.Sprintf("The store returned an error (HTTP %d)", status)
		}
		de = shared.NewDomainError(shared.CodeServer, msg)
	}
	return &statusError{DomainError: de, status: status}
}

// isTransient reports whether a failed attempt may succeed on retry
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		switch se.status {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return shared.IsNetworkError(err)
}

// requireToken enforces the bearer token on authenticated endpoints
// before any network call is made.
func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return shared.NewAuthError(shared.ErrUnauthorized.Message)
	}
	return nil
}

// seg escapes one path segment
func seg(s string) string {
	return url.PathEscape(s)
}
