// Package remote is the HTTP client of the remote sync backend.
//
// The backend applies one outbox item per request:
//
//	POST {base}/sync/{table}
//	{"operation":"create","table":"sessions","payload":{...},"timestamp":...}
//
// and answers 2xx on success or a non-2xx status with an optional
// {"error":"..."} body. Every failure surfaces as *Error; Permanent only
// classifies it for logs and metrics, the caller retries regardless.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/outbox"
)

// ErrNoBaseURL is returned by New without a base URL.
var ErrNoBaseURL = errors.New("remote: base URL is required")

// idempotencyNamespace scopes the deterministic request ids derived from
// queue items.
var idempotencyNamespace = uuid.MustParse("6f1c2d7e-6a43-4c1b-9a55-2f0f4b8e9d10")

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4 << 10

// TokenSource returns the bearer token of the signed-in user.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource that always yields tok.
func StaticToken(tok string) TokenSource {
	return func(context.Context) (string, error) { return tok, nil }
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // per request; defaults to 15s
	RPS        float64       // request pacing; <= 0 disables
	Burst      int
	Token      TokenSource
	HTTPClient *http.Client
	UserAgent  string
}

// Client talks to the remote sync backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	token   TokenSource
	ua      string
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNoBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", base.Scheme)
	}

	// The caller's client is copied so wrapping its transport leaves it
	// untouched.
	var hc http.Client
	if cfg.HTTPClient != nil {
		hc = *cfg.HTTPClient
	} else {
		hc.Timeout = cfg.Timeout
		if hc.Timeout <= 0 {
			hc.Timeout = 15 * time.Second
		}
	}
	rt := hc.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(rt)
	lim := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "fitsync"
	}
	return &Client{base: base, http: &hc, limiter: lim, token: cfg.Token, ua: ua}, nil
}

// Apply pushes one queue item. It returns nil on 2xx and *Error otherwise.
func (c *Client) Apply(ctx context.Context, item domain.SyncQueueItem) (err error) {
	ctx, span := otel.Tracer("remote").Start(ctx, "remote.Apply")
	span.SetAttributes(
		attribute.Int64("outbox.item_id", item.ID),
		attribute.String("outbox.table", string(item.Table)),
		attribute.String("outbox.operation", string(item.Operation)),
		attribute.Int("outbox.attempts", item.Attempts),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	wire := outbox.ToWire(item)
	wire.ID = 0
	body, err := json.Marshal(wire)
	if err != nil {
		return &Error{Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sync", string(item.Table)), bytes.NewReader(body))
	if err != nil {
		return &Error{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", IdempotencyKey(item))
	if err := c.decorate(ctx, req); err != nil {
		return &Error{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return &Error{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
}

// Probe reports whether the backend answers its health endpoint at all. Any
// HTTP response counts as reachable.
func (c *Client) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("health"), nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.ua)
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return true
}

// IdempotencyKey derives a stable request id from a queue item, so the
// backend can recognise a retried push of the same item.
func IdempotencyKey(item domain.SyncQueueItem) string {
	name := string(item.Table) + ":" + strconv.FormatInt(item.ID, 10) + ":" + strconv.FormatInt(item.EnqueuedAt, 10)
	return uuid.NewSHA1(idempotencyNamespace, []byte(name)).String()
}

func (c *Client) endpoint(parts ...string) string {
	u := *c.base
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(escaped, "/")
	u.RawPath = ""
	return u.String()
}

func (c *Client) decorate(ctx context.Context, req *http.Request) error {
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token == nil {
		return nil
	}
	tok, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("remote: token: %w", err)
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &env) == nil {
		if env.Error != "" {
			return env.Error
		}
		if env.Message != "" {
			return env.Message
		}
	}
	return strings.TrimSpace(string(b))
}
