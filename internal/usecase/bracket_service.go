package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hexis-gg/site-api/internal/domain/bracket"
	"github.com/hexis-gg/site-api/internal/domain/tournament"
	"github.com/hexis-gg/site-api/internal/platform/cache"
	"github.com/hexis-gg/site-api/internal/platform/logging"
)

// BracketOrigin says where a served bracket came from, so degraded serves are
// observable instead of silently swallowed.
type BracketOrigin string

const (
	// OriginCache: fresh cache hit, no fetch performed.
	OriginCache BracketOrigin = "cache"
	// OriginLive: fetched and normalized on this request.
	OriginLive BracketOrigin = "live"
	// OriginStale: refresh failed, an expired cache entry was served instead.
	OriginStale BracketOrigin = "stale"
	// OriginFallback: refresh failed with nothing cached, placeholder served.
	OriginFallback BracketOrigin = "fallback"
	// OriginStatic: the event has no external bracket source configured.
	OriginStatic BracketOrigin = "static"
)

type BracketResult struct {
	Data   bracket.Data
	Origin BracketOrigin
}

// BracketProvider fetches and normalizes the live bracket for an external
// tournament id.
type BracketProvider interface {
	FetchBracket(ctx context.Context, externalID int64) (bracket.Data, error)
}

// BracketService serves brackets by tournament slug: registry lookup, a short
// freshness-bounded cache, live refresh on miss, and degradation to stale or
// placeholder data when the platform misbehaves. Apart from unknown slugs and
// bad input it never returns an error; failures downgrade the origin tag.
type BracketService struct {
	registry tournament.Repository
	provider BracketProvider
	store    *cache.Store
	logger   *logging.Logger
	now      func() time.Time
}

func NewBracketService(
	registry tournament.Repository,
	provider BracketProvider,
	store *cache.Store,
	logger *logging.Logger,
) *BracketService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BracketService{
		registry: registry,
		provider: provider,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *BracketService) GetBracket(ctx context.Context, slug string) (BracketResult, error) {
	ctx, span := startUsecaseSpan(ctx, "BracketService.GetBracket")
	defer span.End()

	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return BracketResult{}, fmt.Errorf("%w: tournament slug is required", ErrInvalidInput)
	}

	record, found, err := s.registry.GetBySlug(ctx, slug)
	if err != nil {
		return BracketResult{}, fmt.Errorf("lookup tournament slug=%s: %w", slug, err)
	}
	if !found {
		return BracketResult{}, fmt.Errorf("%w: unknown tournament slug %q", ErrNotFound, slug)
	}

	// Manually curated events have no platform id; an empty bracket is their
	// valid steady state, not a degradation.
	if !record.HasExternalBracket() {
		return BracketResult{
			Data:   bracket.Empty(record.Slug, record.Title, !record.Archived, s.now().UTC()),
			Origin: OriginStatic,
		}, nil
	}

	key := bracketCacheKey(slug)
	if cached, ok := s.store.Get(ctx, key); ok {
		if data, ok := cached.(bracket.Data); ok {
			return BracketResult{Data: data, Origin: OriginCache}, nil
		}
	}

	data, refreshErr := s.refreshBracket(ctx, record)
	if refreshErr == nil {
		s.store.Set(ctx, key, data)
		return BracketResult{Data: data, Origin: OriginLive}, nil
	}

	if stale, storedAt, ok := s.store.GetStale(ctx, key); ok {
		if data, ok := stale.(bracket.Data); ok {
			s.logger.WarnContext(ctx, "bracket refresh failed, serving stale cache",
				"slug", slug,
				"stored_at", storedAt,
				"error", refreshErr,
			)
			return BracketResult{Data: data, Origin: OriginStale}, nil
		}
	}

	s.logger.ErrorContext(ctx, "bracket refresh failed with no cached copy, serving placeholder",
		"slug", slug,
		"error", refreshErr,
	)
	return BracketResult{
		Data:   bracket.Empty(record.Slug, record.Title, !record.Archived, s.now().UTC()),
		Origin: OriginFallback,
	}, nil
}

// refreshBracket is the outermost boundary for the fetch/normalize chain. A
// panic below it (provider contract drift, normalization bug) is converted to
// an error so the caller degrades instead of failing the request.
func (s *BracketService) refreshBracket(ctx context.Context, record tournament.Tournament) (data bracket.Data, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bracket refresh panicked: %v", r)
		}
	}()

	data, err = s.provider.FetchBracket(ctx, record.MatcherinoID)
	if err != nil {
		return bracket.Data{}, fmt.Errorf("fetch bracket external_id=%d: %w", record.MatcherinoID, err)
	}
	return data, nil
}

func bracketCacheKey(slug string) string {
	return "bracket:" + slug
}
