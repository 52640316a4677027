package matcherino

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	sonic "github.com/bytedance/sonic"

	"github.com/hexis-gg/site-api/internal/platform/logging"
)

// Ordered candidate patterns for bracket JSON embedded in inline scripts.
// Each captures a braced object literal assigned to a known global.
var bracketScriptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)window\.__INITIAL_STATE__\s*=\s*(\{.*?\})\s*;`),
	regexp.MustCompile(`(?s)(?:var|let|const)\s+bracketData\s*=\s*(\{.*?\})\s*;`),
	regexp.MustCompile(`(?s)window\.bracket\s*=\s*(\{.*?\})\s*;`),
}

// Ordered participant-count patterns: human-readable labels first, embedded
// JSON keys second. The tolerance window and digit bounds are tuned against
// observed platform markup; widening them changes matching behavior.
var participantCountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Participants[^0-9]{0,12}(\d{1,5})`),
	regexp.MustCompile(`Entrants[^0-9]{0,12}(\d{1,5})`),
	regexp.MustCompile(`"participants"\s*:\s*(\d{1,5})`),
	regexp.MustCompile(`"entrants"\s*:\s*(\d{1,5})`),
	regexp.MustCompile(`"numParticipants"\s*:\s*(\d{1,5})`),
}

// ExtractEmbeddedBracket scans the inline scripts of a tournament page for
// bracket JSON. The first candidate that parses wins and stops the scan; a
// candidate that fails to parse is skipped, not fatal. A false return means
// the page simply carries no recognizable bracket blob.
func ExtractEmbeddedBracket(html string, logger *logging.Logger) ([]byte, bool) {
	if logger == nil {
		logger = logging.Default()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Debug("bracket page did not parse as html", "error", err)
		return nil, false
	}

	var found []byte
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if strings.TrimSpace(text) == "" {
			return true
		}
		for _, pattern := range bracketScriptPatterns {
			match := pattern.FindStringSubmatch(text)
			if len(match) < 2 {
				continue
			}
			candidate := []byte(match[1])
			var probe map[string]any
			if err := sonic.Unmarshal(candidate, &probe); err != nil {
				logger.Debug("embedded bracket candidate is not valid json, trying next pattern",
					"pattern", pattern.String(),
					"error", err,
				)
				continue
			}
			found = candidate
			return false
		}
		return true
	})

	if found == nil {
		return nil, false
	}
	return found, true
}

// DecodeEmbeddedTournament interprets a payload pulled out of an inline
// script. State globals wrap the tournament under a key; direct assignments
// carry it bare.
func DecodeEmbeddedTournament(payload []byte) (Tournament, error) {
	var direct Tournament
	if err := sonic.Unmarshal(payload, &direct); err == nil && (direct.ID != 0 || len(direct.Teams) > 0) {
		return direct, nil
	}

	var wrapped struct {
		Bounty     *Tournament `json:"bounty"`
		Tournament *Tournament `json:"tournament"`
	}
	if err := sonic.Unmarshal(payload, &wrapped); err != nil {
		return Tournament{}, err
	}
	if wrapped.Bounty != nil {
		return *wrapped.Bounty, nil
	}
	if wrapped.Tournament != nil {
		return *wrapped.Tournament, nil
	}
	return Tournament{}, fmt.Errorf("no tournament object in embedded payload")
}

// ParticipantCountFromHTML scans a tournament page for a participant count.
// Patterns are tried in order; the first captured integer that parses wins.
func ParticipantCountFromHTML(html string) (int, bool) {
	for _, pattern := range participantCountPatterns {
		match := pattern.FindStringSubmatch(html)
		if len(match) < 2 {
			continue
		}
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return value, true
	}
	return 0, false
}
