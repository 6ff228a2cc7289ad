// Package rest is the shared HTTP client for the portal backend. One Client is
// built at startup; each business domain gets a Scope over it so URL building,
// header injection, JSON handling, and error normalisation live in one place.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/pkg/metrics"
	"github.com/homeops/portal/internal/pkg/validation"
)

// Scheme is the prefix of the Authorization header value.
type Scheme string

const (
	SchemeBearer Scheme = "Bearer"
	// Deprecated: SchemeToken is kept for backends that predate bearer tokens.
	SchemeToken Scheme = "Token"
)

// ParseScheme maps a configuration value to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bearer":
		return SchemeBearer, nil
	case "token":
		return SchemeToken, nil
	default:
		return "", fmt.Errorf("rest: unknown auth scheme %q", s)
	}
}

// TokenSource yields the current access token. It is consulted on every
// request; returning domain.ErrTokenNotFound sends the request anonymously.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type tokenKey struct{}

// WithToken returns a context whose requests authenticate with token instead
// of the client's TokenSource.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token attached by WithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey{}).(string)
	return t, ok && t != ""
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Scheme  Scheme
	Tokens  TokenSource
	// Timeout bounds each request including the body; 0 means no timeout.
	Timeout time.Duration
	// RateLimit caps requests per second; 0 disables limiting.
	RateLimit float64
	Burst     int
	// HTTPClient overrides the underlying transport, mainly for tests.
	HTTPClient *http.Client
	Validator  *validation.Validator
	Logger     zerolog.Logger
}

// Client holds the transport and the per-process request policy.
type Client struct {
	http     *resty.Client
	baseURL  string
	scheme   Scheme
	tokens   TokenSource
	limiter  *rate.Limiter
	validate *validation.Validator
	log      zerolog.Logger
}

// New builds a Client. BaseURL must be absolute.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("rest: invalid base url %q", opts.BaseURL)
	}

	scheme := opts.Scheme
	if scheme == "" {
		scheme = SchemeBearer
	}
	if scheme == SchemeToken {
		opts.Logger.Warn().Msg("the Token authorization scheme is deprecated, prefer Bearer")
	}

	var hc *resty.Client
	if opts.HTTPClient != nil {
		hc = resty.NewWithClient(opts.HTTPClient)
	} else {
		hc = resty.New()
	}
	if opts.Timeout > 0 {
		hc.SetTimeout(opts.Timeout)
	}
	hc.SetLogger(restyLogger{log: opts.Logger})

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	v := opts.Validator
	if v == nil {
		v = validation.New()
	}

	return &Client{
		http:     hc,
		baseURL:  base,
		scheme:   scheme,
		tokens:   opts.Tokens,
		limiter:  limiter,
		validate: v,
		log:      opts.Logger,
	}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Scope returns a requester rooted at basePath ("" or "/" for the API root).
func (c *Client) Scope(basePath string) *Scope {
	p := strings.Trim(basePath, "/")
	if p != "" {
		p = "/" + p
	}
	return &Scope{c: c, base: p}
}

func (c *Client) token(ctx context.Context) (string, error) {
	if t, ok := TokenFromContext(ctx); ok {
		return t, nil
	}
	if c.tokens == nil {
		return "", nil
	}
	t, err := c.tokens.AccessToken(ctx)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return "", nil
	}
	return t, err
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	start := time.Now()
	err := c.limiter.Wait(ctx)
	metrics.RateLimitWaitSeconds.Observe(time.Since(start).Seconds())
	return err
}

type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }
