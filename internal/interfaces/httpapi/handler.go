package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hexis-gg/site-api/internal/domain/tournament"
	"github.com/hexis-gg/site-api/internal/platform/logging"
	"github.com/hexis-gg/site-api/internal/usecase"
)

type Handler struct {
	bracketService *usecase.BracketService
	countService   *usecase.ParticipantCountService
	registry       tournament.Repository
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	bracketService *usecase.BracketService,
	countService *usecase.ParticipantCountService,
	registry tournament.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		bracketService: bracketService,
		countService:   countService,
		registry:       registry,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	tournaments, err := h.registry.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tournamentDTO, 0, len(tournaments))
	for _, t := range tournaments {
		items = append(items, tournamentToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
