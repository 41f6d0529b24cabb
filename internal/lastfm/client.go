package lastfm

import (
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

	"reprise/internal/config"
	"reprise/internal/invocation"
	"reprise/internal/throttle"
)

const (
	defaultBaseURL      = "https://ws.audioscrobbler.com/2.0/"
	defaultCallAttempts = 3
	defaultRetryDelay   = 5 * time.Minute
	defaultHTTPTimeout  = time.Minute
)

// Config captures the runtime settings required to talk to the service.
type Config struct {
	APIKey       string
	BaseURL      string
	CallAttempts int
	RetryDelay   time.Duration
	Timeout      time.Duration
}

// ConfigFrom maps application settings onto a client Config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		APIKey:       cfg.Lastfm.APIKey,
		BaseURL:      cfg.Lastfm.BaseURL,
		CallAttempts: cfg.Lastfm.CallAttempts,
		RetryDelay:   time.Duration(cfg.Lastfm.RetryDelaySeconds) * time.Second,
		Timeout:      time.Duration(cfg.Lastfm.RequestTimeoutSeconds) * time.Second,
	}
}

// Client performs raw web-service calls: parameter assembly, throttling,
// and bounded retry of recoverable failures.
type Client struct {
	cfg        Config
	endpoint   *url.URL
	httpClient *http.Client
	limiter    throttle.Limiter
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how retry delays are waited out (useful for tests).
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewClient constructs a client using the supplied configuration. Every
// attempt the client makes passes through limiter first.
func NewClient(cfg Config, limiter throttle.Limiter, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("lastfm: api key required")
	}
	if limiter == nil {
		return nil, errors.New("lastfm: throttle limiter required")
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	endpoint, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("lastfm: parse base url: %w", err)
	}
	if cfg.CallAttempts <= 0 {
		cfg.CallAttempts = defaultCallAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := &Client{
		cfg:        cfg,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		sleep:      throttle.SleepWithContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Invoke performs the invocation, retrying recoverable failures up to the
// configured attempt bound with a fixed delay between attempts. Failures
// come back inside the Response; the error return covers invalid
// invocations and context cancellation before the first response arrived.
// When cancellation interrupts a retry delay, the last recoverable response
// is returned as the final outcome.
func (c *Client) Invoke(ctx context.Context, inv invocation.Invocation) (Response, error) {
	if !inv.CallType.Valid() {
		return Response{}, fmt.Errorf("lastfm: unknown call type %d", int(inv.CallType))
	}
	params, err := queryParams(inv, c.cfg.APIKey)
	if err != nil {
		return Response{}, fmt.Errorf("lastfm: %w", err)
	}

	var last Response
	for attempt := 1; attempt <= c.cfg.CallAttempts; attempt++ {
		if err := c.limiter.Acquire(ctx); err != nil {
			if attempt > 1 {
				return last, nil
			}
			return Response{}, fmt.Errorf("lastfm: throttle: %w", err)
		}

		resp, err := c.call(ctx, params)
		if err != nil {
			if attempt > 1 {
				return last, nil
			}
			return Response{}, err
		}
		if resp.OK || !resp.Recoverable {
			return resp, nil
		}
		last = resp

		if attempt == c.cfg.CallAttempts {
			break
		}
		if err := c.sleep(ctx, c.cfg.RetryDelay); err != nil {
			break
		}
	}
	return last, nil
}

// call performs a single HTTP round trip and classifies the outcome.
func (c *Client) call(ctx context.Context, params url.Values) (Response, error) {
	endpoint := *c.endpoint
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("lastfm: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Response{}, ctxErr
		}
		return Response{
			Recoverable: true,
			StatusCode:  StatusTransportFailure,
			Message:     err.Error(),
		}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Response{}, ctxErr
		}
		return Response{
			Recoverable: true,
			StatusCode:  StatusTransportFailure,
			Message:     fmt.Sprintf("read body: %v", err),
		}, nil
	}

	if resp.StatusCode != http.StatusOK {
		message := snippet(string(body))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return Response{
			Recoverable: recoverableHTTPStatuses[resp.StatusCode],
			StatusCode:  resp.StatusCode,
			Message:     message,
		}, nil
	}
	return classifyPayload(body), nil
}

// classifyPayload inspects an HTTP 200 body for the service's JSON error
// envelope. Anything that is not such an envelope counts as success.
func classifyPayload(body []byte) Response {
	var envelope struct {
		Error   int    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Response{
			StatusCode: http.StatusOK,
			Message:    fmt.Sprintf("malformed response: %v", err),
		}
	}
	if envelope.Error != 0 {
		return Response{
			Recoverable: recoverableServiceCodes[envelope.Error],
			StatusCode:  envelope.Error,
			Message:     envelope.Message,
		}
	}
	return Response{OK: true, StatusCode: http.StatusOK, Body: body}
}

// queryParams assembles the wire parameters for an invocation. Entity names
// keep their display casing: the service resolves names case-insensitively
// for lookups but echoes canonical casing back in payloads.
func queryParams(inv invocation.Invocation, apiKey string) (url.Values, error) {
	params := url.Values{}
	params.Set("method", inv.CallType.Method())

	target := inv.Target
	switch target.Kind() {
	case invocation.TargetArtist:
		params.Set("artist", target.Artist())
	case invocation.TargetAlbum:
		params.Set("artist", target.Artist())
		params.Set("album", target.Name())
	case invocation.TargetTrack:
		params.Set("artist", target.Artist())
		params.Set("track", target.Name())
	case invocation.TargetPage:
		params.Set("page", strconv.Itoa(target.Page()))
	default:
		return nil, errors.New("target is empty")
	}

	params.Set("api_key", apiKey)
	params.Set("format", "json")
	return params, nil
}
