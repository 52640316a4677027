package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/hexis-gg/site-api/internal/usecase"
)

const countsCacheControl = "public, max-age=300"

type participantCountQuery struct {
	IDs   []string `validate:"omitempty,dive,numeric"`
	Slugs []string `validate:"omitempty,dive,min=1"`
}

type participantCountsDTO struct {
	Results map[string]*int `json:"results"`
}

// GetParticipantCounts resolves counts for one or more identifiers supplied
// as comma-separated ids and/or slugs query parameters. Results are keyed
// "<kind>:<value>"; unknown counts come back as null, not as errors.
func (h *Handler) GetParticipantCounts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetParticipantCounts")
	defer span.End()

	query := participantCountQuery{
		IDs:   splitParam(r.URL.Query().Get("ids")),
		Slugs: splitParam(r.URL.Query().Get("slugs")),
	}
	if len(query.IDs)+len(query.Slugs) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: supply at least one of ids or slugs", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.StructCtx(ctx, query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	keys := make([]usecase.CountKey, 0, len(query.IDs)+len(query.Slugs))
	for _, id := range query.IDs {
		key, err := usecase.NewCountKey(usecase.CountKindID, id)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		keys = append(keys, key)
	}
	for _, slug := range query.Slugs {
		key, err := usecase.NewCountKey(usecase.CountKindSlug, slug)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		keys = append(keys, key)
	}

	results, err := h.countService.ResolveBatch(ctx, keys)
	if err != nil {
		h.logger.ErrorContext(ctx, "participant count batch failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Cache-Control", countsCacheControl)
	writeSuccess(ctx, w, http.StatusOK, participantCountsDTO{Results: results})
}

func splitParam(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			out = append(out, value)
		}
	}
	return out
}
