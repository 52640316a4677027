package matcherino

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hexis-gg/site-api/internal/domain/bracket"
	"github.com/hexis-gg/site-api/internal/usecase"
)

// FetchBracket fetches a tournament from the platform API and normalizes it
// into the internal bracket projection. When the API call fails, the public
// tournament page is scraped for an embedded bracket payload before giving up;
// the page is served from a CDN and often survives API outages.
func (c *Client) FetchBracket(ctx context.Context, externalID int64) (bracket.Data, error) {
	src, err := c.FetchTournament(ctx, externalID)
	if err != nil {
		embedded, ok := c.fetchEmbeddedTournament(ctx, externalID)
		if !ok {
			return bracket.Data{}, err
		}
		c.logger.WarnContext(ctx, "tournament api failed, using bracket embedded in page",
			"external_id", externalID,
			"error", err,
		)
		src = embedded
	}
	return Normalize(src, time.Now().UTC()), nil
}

func (c *Client) fetchEmbeddedTournament(ctx context.Context, externalID int64) (Tournament, bool) {
	page, err := c.FetchTournamentPage(ctx, externalID)
	if err != nil {
		return Tournament{}, false
	}
	payload, ok := ExtractEmbeddedBracket(page, c.logger)
	if !ok {
		return Tournament{}, false
	}
	src, err := DecodeEmbeddedTournament(payload)
	if err != nil {
		c.logger.WarnContext(ctx, "embedded bracket payload did not decode",
			"external_id", externalID,
			"error", err,
		)
		return Tournament{}, false
	}
	return src, true
}

// FetchParticipantCount scrapes the tournament page matching the key's kind.
// A nil count with nil error means the page loaded but carried no
// recognizable participant number.
func (c *Client) FetchParticipantCount(ctx context.Context, key usecase.CountKey) (*int, error) {
	var html string
	var err error
	switch key.Kind {
	case usecase.CountKindID:
		id, parseErr := strconv.ParseInt(key.Value, 10, 64)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: count id %q is not numeric", usecase.ErrInvalidInput, key.Value)
		}
		html, err = c.FetchTournamentPage(ctx, id)
	case usecase.CountKindSlug:
		html, err = c.FetchCustomPage(ctx, key.Value)
	default:
		return nil, fmt.Errorf("%w: unknown count identifier kind %q", usecase.ErrInvalidInput, key.Kind)
	}
	if err != nil {
		return nil, err
	}

	if count, ok := ParticipantCountFromHTML(html); ok {
		return &count, nil
	}
	return nil, nil
}
