package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hexis-gg/site-api/internal/platform/cache"
)

type stubCountFetcher struct {
	mu     sync.Mutex
	calls  map[string]int
	counts map[string]*int
	errs   map[string]error
	panics map[string]bool
}

func newStubCountFetcher() *stubCountFetcher {
	return &stubCountFetcher{
		calls:  map[string]int{},
		counts: map[string]*int{},
		errs:   map[string]error{},
		panics: map[string]bool{},
	}
}

func (s *stubCountFetcher) FetchParticipantCount(_ context.Context, key CountKey) (*int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[key.String()]++
	if s.panics[key.String()] {
		panic("fetcher exploded")
	}
	if err := s.errs[key.String()]; err != nil {
		return nil, err
	}
	return s.counts[key.String()], nil
}

func (s *stubCountFetcher) callCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func ptrInt(v int) *int { return &v }

func TestParticipantCountService_SecondCallWithinTTLSkipsFetch(t *testing.T) {
	t.Parallel()

	fetcher := newStubCountFetcher()
	fetcher.counts["id:111"] = ptrInt(16)
	svc := NewParticipantCountService(fetcher, cache.NewStore(12*time.Hour), nil, 4)

	key, _ := NewCountKey(CountKindID, "111")
	if count := svc.Resolve(context.Background(), key); count == nil || *count != 16 {
		t.Fatalf("unexpected first resolve: %v", count)
	}
	if count := svc.Resolve(context.Background(), key); count == nil || *count != 16 {
		t.Fatalf("unexpected second resolve: %v", count)
	}
	if got := fetcher.callCount("id:111"); got != 1 {
		t.Fatalf("expected one fetch within TTL, got %d", got)
	}
}

func TestParticipantCountService_FailedFetchCachesNull(t *testing.T) {
	t.Parallel()

	fetcher := newStubCountFetcher()
	fetcher.errs["slug:dead-event"] = errors.New("origin unreachable")
	svc := NewParticipantCountService(fetcher, cache.NewStore(12*time.Hour), nil, 4)

	key, _ := NewCountKey(CountKindSlug, "dead-event")
	if count := svc.Resolve(context.Background(), key); count != nil {
		t.Fatalf("expected null after failed fetch, got %d", *count)
	}
	if count := svc.Resolve(context.Background(), key); count != nil {
		t.Fatalf("expected cached null, got %d", *count)
	}
	if got := fetcher.callCount("slug:dead-event"); got != 1 {
		t.Fatalf("expected the null to be served without a refetch, got %d fetches", got)
	}
}

func TestParticipantCountService_ParsedZeroIsServedAsZero(t *testing.T) {
	t.Parallel()

	fetcher := newStubCountFetcher()
	fetcher.counts["id:7"] = ptrInt(0)
	svc := NewParticipantCountService(fetcher, cache.NewStore(12*time.Hour), nil, 4)

	key, _ := NewCountKey(CountKindID, "7")
	count := svc.Resolve(context.Background(), key)
	if count == nil || *count != 0 {
		t.Fatalf("a genuine zero must stay distinguishable from null, got %v", count)
	}
}

func TestParticipantCountService_BatchIsolatesPerKeyFailures(t *testing.T) {
	t.Parallel()

	fetcher := newStubCountFetcher()
	fetcher.counts["id:111"] = ptrInt(32)
	fetcher.errs["slug:bad-slug"] = errors.New("boom")
	fetcher.panics["slug:worse-slug"] = true
	svc := NewParticipantCountService(fetcher, cache.NewStore(12*time.Hour), nil, 4)

	idKey, _ := NewCountKey(CountKindID, "111")
	badKey, _ := NewCountKey(CountKindSlug, "bad-slug")
	worseKey, _ := NewCountKey(CountKindSlug, "worse-slug")

	results, err := svc.ResolveBatch(context.Background(), []CountKey{idKey, badKey, worseKey})
	if err != nil {
		t.Fatalf("batch resolve: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected an entry per key, got %d", len(results))
	}
	if count := results["id:111"]; count == nil || *count != 32 {
		t.Fatalf("healthy key must survive sibling failures, got %v", count)
	}
	if results["slug:bad-slug"] != nil {
		t.Fatalf("failed key should map to null")
	}
	if results["slug:worse-slug"] != nil {
		t.Fatalf("panicking key should map to null")
	}
}

func TestParticipantCountService_EmptyBatch(t *testing.T) {
	t.Parallel()

	svc := NewParticipantCountService(newStubCountFetcher(), cache.NewStore(12*time.Hour), nil, 4)
	results, err := svc.ResolveBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %v", results)
	}
}

func TestNewCountKey_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewCountKey(CountKindID, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank value, got %v", err)
	}
	if _, err := NewCountKey("serial", "1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown kind, got %v", err)
	}
	key, err := NewCountKey(CountKindSlug, " hexis-cup ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.String() != "slug:hexis-cup" {
		t.Fatalf("unexpected key string %q", key.String())
	}
}
