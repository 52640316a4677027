package matcherino

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hexis-gg/site-api/internal/platform/resilience"
	"github.com/hexis-gg/site-api/internal/usecase"
)

func TestClient_FetchTournamentDecodesEnvelope(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bounties/findById" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("id") != "146021" {
			t.Errorf("unexpected id %s", r.URL.Query().Get("id"))
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"body":{"id":146021,"name":"Hexis Open","status":"in_progress","teams":[],"payouts":[]}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIBaseURL:     server.URL,
		Timeout:        2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	out, err := client.FetchTournament(context.Background(), 146021)
	if err != nil {
		t.Fatalf("fetch tournament: %v", err)
	}
	if out.ID != 146021 || out.Name != "Hexis Open" || out.Status != "in_progress" {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"body":{"id":1,"name":"Cup"}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIBaseURL:     server.URL,
		MaxRetries:     1,
		Timeout:        2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	out, err := client.FetchTournament(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if out.Name != "Cup" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestClient_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIBaseURL:     server.URL,
		MaxRetries:     3,
		Timeout:        2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	if _, err := client.FetchTournament(context.Background(), 1); err == nil {
		t.Fatalf("expected error for 404")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected no retries on 404, got %d calls", got)
	}
}

func TestClient_OpenCircuitRejectsWithDependencyUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		APIBaseURL: server.URL,
		Timeout:    2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchTournament(context.Background(), 1); err == nil {
		t.Fatalf("expected first call to fail")
	}
	_, err := client.FetchTournament(context.Background(), 1)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency-unavailable from open circuit, got %v", err)
	}
}

func TestClient_PageFetchSendsScrapeHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("accept"); got != "text/html" {
			t.Errorf("unexpected accept header %q", got)
		}
		if got := r.Header.Get("user-agent"); got != defaultUserAgent {
			t.Errorf("unexpected user-agent %q", got)
		}
		if r.URL.Path != "/t/hexis-cup" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`<html>Participants 12</html>`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		SiteBaseURL:    server.URL,
		Timeout:        2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	html, err := client.FetchCustomPage(context.Background(), "hexis-cup")
	if err != nil {
		t.Fatalf("fetch custom page: %v", err)
	}
	if html == "" {
		t.Fatalf("expected page body")
	}
}

func TestClient_FetchBracketFallsBackToEmbeddedPage(t *testing.T) {
	t.Parallel()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer api.Close()

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tournaments/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`<html><script>window.__INITIAL_STATE__ = {"bounty":{"id":7,"name":"Cup","status":"in_progress","teams":[],"payouts":[]}};</script></html>`))
	}))
	defer site.Close()

	client := NewClient(ClientConfig{
		APIBaseURL:     api.URL,
		SiteBaseURL:    site.URL,
		Timeout:        2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	out, err := client.FetchBracket(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected page fallback to serve the bracket: %v", err)
	}
	if out.Metadata.Title != "Cup" || !out.Metadata.IsLive {
		t.Fatalf("unexpected normalized bracket: %+v", out.Metadata)
	}
}

func TestClient_FetchParticipantCountScrapesByKind(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tournaments/42":
			_, _ = w.Write([]byte(`<html>Participants: 24</html>`))
		case "/t/ghost-town":
			_, _ = w.Write([]byte(`<html>no counts on this page</html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		SiteBaseURL:    server.URL,
		Timeout:        2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	idKey, _ := usecase.NewCountKey(usecase.CountKindID, "42")
	count, err := client.FetchParticipantCount(context.Background(), idKey)
	if err != nil {
		t.Fatalf("fetch id count: %v", err)
	}
	if count == nil || *count != 24 {
		t.Fatalf("unexpected id count: %v", count)
	}

	slugKey, _ := usecase.NewCountKey(usecase.CountKindSlug, "ghost-town")
	count, err = client.FetchParticipantCount(context.Background(), slugKey)
	if err != nil {
		t.Fatalf("fetch slug count: %v", err)
	}
	if count != nil {
		t.Fatalf("expected nil count for a page without numbers, got %d", *count)
	}
}
