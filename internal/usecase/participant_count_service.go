package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/hexis-gg/site-api/internal/platform/cache"
	"github.com/hexis-gg/site-api/internal/platform/logging"
)

const defaultCountWorkers = 8

// ParticipantCountFetcher resolves a count from the platform for one key. A
// nil count with nil error means the platform answered but no count could be
// read from the page.
type ParticipantCountFetcher interface {
	FetchParticipantCount(ctx context.Context, key CountKey) (*int, error)
}

// ParticipantCountService caches per-tournament participant counts. A nil
// count is a first-class cached value ("looked up, genuinely unknown") and is
// served within the TTL like any number, which keeps a dead identifier from
// being re-scraped on every page view.
type ParticipantCountService struct {
	fetcher    ParticipantCountFetcher
	store      *cache.Store
	logger     *logging.Logger
	maxWorkers int
}

func NewParticipantCountService(
	fetcher ParticipantCountFetcher,
	store *cache.Store,
	logger *logging.Logger,
	maxWorkers int,
) *ParticipantCountService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = defaultCountWorkers
	}
	return &ParticipantCountService{
		fetcher:    fetcher,
		store:      store,
		logger:     logger,
		maxWorkers: maxWorkers,
	}
}

// Resolve returns the participant count for one key, from cache when fresh.
// The result, null included, is always written back with a fresh timestamp.
func (s *ParticipantCountService) Resolve(ctx context.Context, key CountKey) *int {
	ctx, span := startUsecaseSpan(ctx, "ParticipantCountService.Resolve")
	defer span.End()

	cacheKey := key.String()
	if cached, ok := s.store.Get(ctx, cacheKey); ok {
		count, _ := cached.(*int)
		return count
	}

	count := s.fetchCount(ctx, key)
	s.store.Set(ctx, cacheKey, count)
	return count
}

// ResolveBatch resolves keys concurrently. Keys fail independently; a fetch
// error on one key yields a null entry for it and leaves the rest intact.
func (s *ParticipantCountService) ResolveBatch(ctx context.Context, keys []CountKey) (map[string]*int, error) {
	ctx, span := startUsecaseSpan(ctx, "ParticipantCountService.ResolveBatch")
	defer span.End()

	if len(keys) == 0 {
		return map[string]*int{}, nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(keys) {
		workerCount = len(keys)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(map[string]*int, len(keys))
	var mu sync.Mutex
	var workers sync.WaitGroup

	for _, key := range keys {
		key := key
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			count := s.resolveIsolated(ctx, key)
			mu.Lock()
			results[key.String()] = count
			mu.Unlock()
		}); err != nil {
			workers.Done()
			mu.Lock()
			results[key.String()] = nil
			mu.Unlock()
		}
	}

	workers.Wait()
	return results, nil
}

// resolveIsolated keeps one misbehaving key from poisoning a batch.
func (s *ParticipantCountService) resolveIsolated(ctx context.Context, key CountKey) (count *int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "participant count resolution panicked",
				"key", key.String(),
				"panic", r,
			)
			count = nil
		}
	}()
	return s.Resolve(ctx, key)
}

func (s *ParticipantCountService) fetchCount(ctx context.Context, key CountKey) *int {
	count, err := s.fetcher.FetchParticipantCount(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "participant count fetch failed, caching null",
			"key", key.String(),
			"error", err,
		)
		return nil
	}
	return count
}
