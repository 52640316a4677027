package tournament

import "context"

// Repository describes tournament registry reads from use cases.
type Repository interface {
	List(ctx context.Context) ([]Tournament, error)
	GetBySlug(ctx context.Context, slug string) (Tournament, bool, error)
}
