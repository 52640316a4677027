package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hexis-gg/site-api/internal/domain/bracket"
	"github.com/hexis-gg/site-api/internal/domain/tournament"
	tournamentmock "github.com/hexis-gg/site-api/internal/mocks/domain/tournament"
	"github.com/hexis-gg/site-api/internal/platform/cache"
)

func TestBracketService_GetBracket_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := tournamentmock.NewRepository(t)
	provider := &stubProvider{data: bracket.Data{Metadata: bracket.Metadata{Title: "Spring Open", TotalRounds: 3}}}

	service := NewBracketService(registry, provider, cache.NewStore(5*time.Minute), nil)

	registry.
		On("GetBySlug", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "spring-open").
		Return(tournament.Tournament{Slug: "spring-open", Title: "Spring Open", MatcherinoID: 146021}, true, nil).
		Once()

	got, err := service.GetBracket(ctx, "spring-open")
	if err != nil {
		t.Fatalf("get bracket: %v", err)
	}
	if got.Origin != OriginLive {
		t.Fatalf("unexpected origin: got=%s want=%s", got.Origin, OriginLive)
	}
	if got.Data.Metadata.TotalRounds != 3 {
		t.Fatalf("unexpected rounds: got=%d want=3", got.Data.Metadata.TotalRounds)
	}
}

func TestBracketService_GetBracket_RegistryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := tournamentmock.NewRepository(t)

	service := NewBracketService(registry, &stubProvider{}, cache.NewStore(5*time.Minute), nil)

	registry.
		On("GetBySlug", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "broken").
		Return(tournament.Tournament{}, false, errors.New("registry offline")).
		Once()

	_, err := service.GetBracket(ctx, "broken")
	if err == nil {
		t.Fatalf("expected registry failure to surface")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("registry failure must not read as a missing tournament: %v", err)
	}
}
