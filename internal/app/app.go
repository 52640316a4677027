package app

import (
	"fmt"
	"net/http"

	"github.com/hexis-gg/site-api/external/matcherino"
	"github.com/hexis-gg/site-api/internal/config"
	"github.com/hexis-gg/site-api/internal/infrastructure/repository/memory"
	"github.com/hexis-gg/site-api/internal/interfaces/httpapi"
	"github.com/hexis-gg/site-api/internal/platform/cache"
	"github.com/hexis-gg/site-api/internal/platform/logging"
	"github.com/hexis-gg/site-api/internal/platform/resilience"
	"github.com/hexis-gg/site-api/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	registry := memory.NewTournamentRepository(memory.SeedTournaments())

	client := matcherino.NewClient(matcherino.ClientConfig{
		APIBaseURL:  cfg.MatcherinoAPIBaseURL,
		SiteBaseURL: cfg.MatcherinoSiteBaseURL,
		UserAgent:   cfg.MatcherinoUserAgent,
		Timeout:     cfg.MatcherinoTimeout,
		MaxRetries:  cfg.MatcherinoMaxRetries,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.MatcherinoCircuitEnabled,
			FailureThreshold: cfg.MatcherinoCircuitFailureCount,
			OpenTimeout:      cfg.MatcherinoCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.MatcherinoCircuitHalfOpenMaxReq,
		},
	})

	bracketStore := cache.NewStore(cfg.BracketCacheTTL)
	countStore := cache.NewStore(cfg.CountCacheTTL)

	bracketSvc := usecase.NewBracketService(registry, client, bracketStore, logger)
	countSvc := usecase.NewParticipantCountService(client, countStore, logger, cfg.CountMaxWorkers)

	handler := httpapi.NewHandler(bracketSvc, countSvc, registry, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
