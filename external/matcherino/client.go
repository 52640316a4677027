package matcherino

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/hexis-gg/site-api/internal/platform/logging"
	"github.com/hexis-gg/site-api/internal/platform/resilience"
	"github.com/hexis-gg/site-api/internal/usecase"
)

const (
	defaultAPIBaseURL  = "https://api.matcherino.com/__api"
	defaultSiteBaseURL = "https://matcherino.com"
	defaultUserAgent   = "hexis-site-api/1.0 (+https://hexis.gg)"

	maxBodyBytes = 4 << 20
)

var errMatcherinoTransient = crerr.New("matcherino transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	APIBaseURL     string
	SiteBaseURL    string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the Matcherino bounty platform: the JSON findById endpoint
// for tournament data and the public site pages for scraping. One breaker
// covers both surfaces since they share the same origin.
type Client struct {
	httpClient     *http.Client
	apiBaseURL     string
	siteBaseURL    string
	userAgent      string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	apiBaseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	siteBaseURL := strings.TrimRight(strings.TrimSpace(cfg.SiteBaseURL), "/")
	if siteBaseURL == "" {
		siteBaseURL = defaultSiteBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		apiBaseURL:     apiBaseURL,
		siteBaseURL:    siteBaseURL,
		userAgent:      userAgent,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchTournament loads the tournament payload for an id-keyed event from the
// platform's findById endpoint.
func (c *Client) FetchTournament(ctx context.Context, id int64) (Tournament, error) {
	if id <= 0 {
		return Tournament{}, fmt.Errorf("tournament id must be greater than zero")
	}

	fullURL := c.apiBaseURL + "/bounties/findById?id=" + strconv.FormatInt(id, 10)
	raw, err := c.do(ctx, fullURL, "application/json")
	if err != nil {
		return Tournament{}, fmt.Errorf("fetch tournament id=%d: %w", id, err)
	}

	var envelope findByIDEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return Tournament{}, fmt.Errorf("decode tournament payload id=%d: %w", id, err)
	}

	return envelope.Body, nil
}

// FetchTournamentPage loads the public page for an id-keyed tournament,
// for participant-count and embedded-bracket scraping.
func (c *Client) FetchTournamentPage(ctx context.Context, id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("tournament id must be greater than zero")
	}
	return c.fetchPage(ctx, c.siteBaseURL+"/tournaments/"+strconv.FormatInt(id, 10))
}

// FetchCustomPage loads the public page for a slug-keyed "custom" tournament,
// which lives under a different path shape on the platform.
func (c *Client) FetchCustomPage(ctx context.Context, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", fmt.Errorf("tournament slug is required")
	}
	return c.fetchPage(ctx, c.siteBaseURL+"/t/"+slug)
}

func (c *Client) fetchPage(ctx context.Context, fullURL string) (string, error) {
	raw, err := c.do(ctx, fullURL, "text/html")
	if err != nil {
		return "", fmt.Errorf("fetch page %s: %w", fullURL, err)
	}
	return string(raw), nil
}

func (c *Client) do(ctx context.Context, fullURL, accept string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "matcherino circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: bracket platform is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, accept)
		if c.circuitEnabled {
			if reqErr != nil && isMatcherinoCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL, accept string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", accept)
		req.Header.Set("user-agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errMatcherinoTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errMatcherinoTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: platform status=%d body=%s", errMatcherinoTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("platform status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("platform request failed")
	}
	c.logger.WarnContext(ctx, "matcherino request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// readBody drains the response through a pooled buffer; tournament pages run
// to a few hundred KB and come in bursts when a cache window expires.
func readBody(r io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(r, maxBodyBytes)); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func isMatcherinoCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errMatcherinoTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
