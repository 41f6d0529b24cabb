package lastfm_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reprise/internal/invocation"
	"reprise/internal/lastfm"
)

// allowAll satisfies throttle.Limiter while counting admissions.
type allowAll struct {
	acquired int
	err      error
}

func (l *allowAll) Acquire(ctx context.Context) error {
	if l.err != nil {
		return l.err
	}
	l.acquired++
	return nil
}

func newTestClient(t *testing.T, baseURL string, attempts int, limiter *allowAll, slept *[]time.Duration) *lastfm.Client {
	t.Helper()
	client, err := lastfm.NewClient(
		lastfm.Config{APIKey: "test", BaseURL: baseURL, CallAttempts: attempts, RetryDelay: time.Second},
		limiter,
		lastfm.WithSleeper(func(ctx context.Context, d time.Duration) error {
			if slept != nil {
				*slept = append(*slept, d)
			}
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func artistInfoInvocation(artist string) invocation.Invocation {
	return invocation.New(invocation.ArtistGetInfo, invocation.ArtistTarget(artist))
}

func TestInvokeSuccessSendsWireParameters(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		query := r.URL.Query()
		if got := query.Get("method"); got != "artist.getInfo" {
			t.Errorf("method = %q, want artist.getInfo", got)
		}
		if got := query.Get("artist"); got != "Röyksopp" {
			t.Errorf("artist = %q, want Röyksopp", got)
		}
		if got := query.Get("api_key"); got != "test" {
			t.Errorf("api_key = %q, want test", got)
		}
		if got := query.Get("format"); got != "json" {
			t.Errorf("format = %q, want json", got)
		}
		_, _ = w.Write([]byte(`{"artist":{"name":"Röyksopp"}}`))
	}))
	defer server.Close()

	limiter := &allowAll{}
	client := newTestClient(t, server.URL, 3, limiter, nil)
	resp, err := client.Invoke(context.Background(), artistInfoInvocation("Röyksopp"))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !resp.OK {
		t.Fatalf("resp = %+v, want OK", resp)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(resp.Body) == 0 {
		t.Fatal("expected body to be retained")
	}
	if calls != 1 {
		t.Fatalf("server calls = %d, want 1", calls)
	}
	if limiter.acquired != 1 {
		t.Fatalf("throttle acquisitions = %d, want 1", limiter.acquired)
	}
}

func TestInvokePageParameter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if got := query.Get("method"); got != "chart.getTopArtists" {
			t.Errorf("method = %q, want chart.getTopArtists", got)
		}
		if got := query.Get("page"); got != "3" {
			t.Errorf("page = %q, want 3", got)
		}
		_, _ = w.Write([]byte(`{"artists":{"artist":[]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1, &allowAll{}, nil)
	inv := invocation.New(invocation.ChartGetTopArtists, invocation.PageTarget(3))
	resp, err := client.Invoke(context.Background(), inv)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !resp.OK {
		t.Fatalf("resp = %+v, want OK", resp)
	}
}

func TestInvokeExhaustsRecoverableEnvelope(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"error":16,"message":"service temporarily unavailable"}`))
	}))
	defer server.Close()

	var slept []time.Duration
	limiter := &allowAll{}
	client := newTestClient(t, server.URL, 3, limiter, &slept)
	resp, err := client.Invoke(context.Background(), artistInfoInvocation("Madonna"))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.OK || !resp.Recoverable {
		t.Fatalf("resp = %+v, want recoverable failure", resp)
	}
	if resp.StatusCode != 16 {
		t.Fatalf("status = %d, want 16", resp.StatusCode)
	}
	if calls != 3 {
		t.Fatalf("server calls = %d, want 3", calls)
	}
	if limiter.acquired != 3 {
		t.Fatalf("throttle acquisitions = %d, want 3", limiter.acquired)
	}
	// No delay after the final attempt.
	if len(slept) != 2 {
		t.Fatalf("sleep count = %d, want 2 (%v)", len(slept), slept)
	}
	for _, d := range slept {
		if d != time.Second {
			t.Fatalf("slept %v, want the configured 1s delay", d)
		}
	}
}

func TestInvokeShortCircuitsPermanentError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"error":6,"message":"artist not found"}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := newTestClient(t, server.URL, 3, &allowAll{}, &slept)
	resp, err := client.Invoke(context.Background(), artistInfoInvocation("Nobody"))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.OK || resp.Recoverable {
		t.Fatalf("resp = %+v, want permanent failure", resp)
	}
	if resp.StatusCode != 6 {
		t.Fatalf("status = %d, want 6", resp.StatusCode)
	}
	if resp.Message != "artist not found" {
		t.Fatalf("message = %q", resp.Message)
	}
	if calls != 1 {
		t.Fatalf("server calls = %d, want 1", calls)
	}
	if len(slept) != 0 {
		t.Fatalf("slept %v, want no delays", slept)
	}
}

func TestInvokeRecoversMidSequence(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"artist":{"name":"Madonna"}}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := newTestClient(t, server.URL, 3, &allowAll{}, &slept)
	resp, err := client.Invoke(context.Background(), artistInfoInvocation("Madonna"))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !resp.OK {
		t.Fatalf("resp = %+v, want OK", resp)
	}
	if calls != 2 {
		t.Fatalf("server calls = %d, want 2", calls)
	}
	if len(slept) != 1 {
		t.Fatalf("sleep count = %d, want 1", len(slept))
	}
}

func TestInvokeClassifiesHTTPStatuses(t *testing.T) {
	cases := []struct {
		status      int
		recoverable bool
	}{
		{http.StatusRequestTimeout, true},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		client := newTestClient(t, server.URL, 1, &allowAll{}, nil)
		resp, err := client.Invoke(context.Background(), artistInfoInvocation("Madonna"))
		server.Close()
		if err != nil {
			t.Fatalf("status %d: Invoke: %v", tc.status, err)
		}
		if resp.OK {
			t.Fatalf("status %d: unexpected success", tc.status)
		}
		if resp.Recoverable != tc.recoverable {
			t.Fatalf("status %d: recoverable = %v, want %v", tc.status, resp.Recoverable, tc.recoverable)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("status %d: reported %d", tc.status, resp.StatusCode)
		}
	}
}

func TestInvokeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	var slept []time.Duration
	client := newTestClient(t, server.URL, 2, &allowAll{}, &slept)
	resp, err := client.Invoke(context.Background(), artistInfoInvocation("Madonna"))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.OK || !resp.Recoverable {
		t.Fatalf("resp = %+v, want recoverable failure", resp)
	}
	if resp.StatusCode != lastfm.StatusTransportFailure {
		t.Fatalf("status = %d, want %d", resp.StatusCode, lastfm.StatusTransportFailure)
	}
	if resp.Message == "" {
		t.Fatal("expected transport error message")
	}
	if len(slept) != 1 {
		t.Fatalf("sleep count = %d, want 1", len(slept))
	}
}

func TestInvokeMalformedSuccessBody(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3, &allowAll{}, nil)
	resp, err := client.Invoke(context.Background(), artistInfoInvocation("Madonna"))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.OK || resp.Recoverable {
		t.Fatalf("resp = %+v, want permanent failure", resp)
	}
	if calls != 1 {
		t.Fatalf("server calls = %d, want 1", calls)
	}
}

func TestInvokeThrottleErrorSurfaces(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0", 3, &allowAll{err: context.Canceled}, nil)
	_, err := client.Invoke(context.Background(), artistInfoInvocation("Madonna"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Invoke = %v, want wrapped context.Canceled", err)
	}
}

func TestInvokeCancelledDelayReturnsLastResponse(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"error":29,"message":"rate limit exceeded"}`))
	}))
	defer server.Close()

	limiter := &allowAll{}
	client, err := lastfm.NewClient(
		lastfm.Config{APIKey: "test", BaseURL: server.URL, CallAttempts: 3, RetryDelay: time.Minute},
		limiter,
		lastfm.WithSleeper(func(ctx context.Context, d time.Duration) error {
			return context.Canceled
		}),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Invoke(context.Background(), artistInfoInvocation("Madonna"))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if resp.StatusCode != 29 || !resp.Recoverable {
		t.Fatalf("resp = %+v, want last recoverable response", resp)
	}
	if calls != 1 {
		t.Fatalf("server calls = %d, want 1 (delay cancelled)", calls)
	}
}

func TestInvokeRejectsEmptyTarget(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0", 1, &allowAll{}, nil)
	if _, err := client.Invoke(context.Background(), invocation.Invocation{CallType: invocation.ArtistGetInfo}); err == nil {
		t.Fatal("expected error for empty target")
	}
	if _, err := client.Invoke(context.Background(), invocation.Invocation{}); err == nil {
		t.Fatal("expected error for zero invocation")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := lastfm.NewClient(lastfm.Config{APIKey: "  "}, &allowAll{}); err == nil {
		t.Fatal("expected error for blank api key")
	}
	if _, err := lastfm.NewClient(lastfm.Config{APIKey: "test"}, nil); err == nil {
		t.Fatal("expected error for nil limiter")
	}
	if _, err := lastfm.NewClient(lastfm.Config{APIKey: "test", BaseURL: "http://bad\x7f"}, &allowAll{}); err == nil {
		t.Fatal("expected error for unparseable base url")
	}
}
