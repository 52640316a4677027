package memory

import "github.com/hexis-gg/site-api/internal/domain/tournament"

// SeedTournaments returns the org's tournament registry. Events without a
// MatcherinoID are curated by staff and have no external bracket source.
func SeedTournaments() []tournament.Tournament {
	return []tournament.Tournament{
		{
			Slug:         "hexis-open-spring-2026",
			Title:        "Hexis Open Spring 2026",
			Game:         "Rocket League",
			MatcherinoID: 146021,
		},
		{
			Slug:         "hexis-open-winter-2025",
			Title:        "Hexis Open Winter 2025",
			Game:         "Rocket League",
			MatcherinoID: 138774,
			Archived:     true,
		},
		{
			Slug:         "creator-clash-vol-3",
			Title:        "Creator Clash Vol. 3",
			Game:         "Fortnite",
			MatcherinoID: 142310,
		},
		{
			// Invite-only event, bracket maintained by staff on the site itself.
			Slug:     "hexis-invitational-2025",
			Title:    "Hexis Invitational 2025",
			Game:     "Valorant",
			Archived: true,
		},
		{
			Slug:         "valorant-community-cup-7",
			Title:        "Valorant Community Cup #7",
			Game:         "Valorant",
			MatcherinoID: 150992,
		},
	}
}
