package matcherino

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hexis-gg/site-api/internal/domain/bracket"
)

// Placements below this are not interesting for the site's bracket widget.
const maxPlacementPlace = 4

type teamInfo struct {
	name    string
	members []string
}

// Normalize converts a platform tournament payload into the internal bracket
// projection. It performs no I/O. The platform exposes final standings but no
// bracket tree, so matches and participants stay empty on this path.
func Normalize(src Tournament, now time.Time) bracket.Data {
	teamsByID := make(map[int64]teamInfo, len(src.Teams))
	for _, team := range src.Teams {
		members := make([]string, 0, len(team.Members))
		for _, member := range team.Members {
			if name := strings.TrimSpace(member.DisplayName); name != "" {
				members = append(members, name)
			}
		}
		teamsByID[team.ID] = teamInfo{
			name:    strings.TrimSpace(team.Name),
			members: members,
		}
	}

	placements := make([]bracket.Placement, 0, len(src.Payouts))
	for _, payout := range src.Payouts {
		if payout.PlaceLow < 1 || payout.PlaceLow > maxPlacementPlace {
			continue
		}
		prize := formatPrize(payout.TotalAmount)
		for _, team := range payout.Teams {
			info := teamsByID[team.ID]
			name := strings.TrimSpace(team.Name)
			if name == "" {
				name = info.name
			}
			members := info.members
			if members == nil {
				members = []string{}
			}
			placements = append(placements, bracket.Placement{
				Place:    payout.PlaceLow,
				TeamName: name,
				TeamID:   strconv.FormatInt(team.ID, 10),
				Prize:    prize,
				Members:  members,
			})
		}
	}
	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].Place < placements[j].Place
	})

	return bracket.Data{
		Matches:      []bracket.Match{},
		Participants: []bracket.Participant{},
		Placements:   placements,
		Metadata: bracket.Metadata{
			TournamentID: strconv.FormatInt(src.ID, 10),
			Title:        strings.TrimSpace(src.Name),
			BracketType:  bracket.TypeSingle,
			IsLive:       strings.EqualFold(strings.TrimSpace(src.Status), "in_progress"),
			LastUpdated:  now,
		},
	}
}

func formatPrize(total *float64) string {
	if total == nil {
		return ""
	}
	return "$" + strconv.FormatFloat(*total, 'f', -1, 64)
}
