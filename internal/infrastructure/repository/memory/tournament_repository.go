package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/hexis-gg/site-api/internal/domain/tournament"
)

type TournamentRepository struct {
	mu     sync.RWMutex
	items  map[string]tournament.Tournament
	orders []string
}

func NewTournamentRepository(tournaments []tournament.Tournament) *TournamentRepository {
	items := make(map[string]tournament.Tournament, len(tournaments))
	orders := make([]string, 0, len(tournaments))

	for _, t := range tournaments {
		items[t.Slug] = t
		orders = append(orders, t.Slug)
	}

	return &TournamentRepository{
		items:  items,
		orders: orders,
	}
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.orders))
	for _, slug := range r.orders {
		out = append(out, r.items[slug])
	}

	return out, nil
}

func (r *TournamentRepository) GetBySlug(_ context.Context, slug string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return tournament.Tournament{}, false, nil
	}

	return t, true, nil
}
