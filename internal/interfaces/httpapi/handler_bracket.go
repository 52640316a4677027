package httpapi

import (
	"net/http"
	"time"

	"github.com/hexis-gg/site-api/internal/domain/bracket"
	"github.com/hexis-gg/site-api/internal/domain/tournament"
	"github.com/hexis-gg/site-api/internal/usecase"
)

// Short CDN/browser window; the server-side cache handles the real load.
const bracketCacheControl = "public, max-age=60"

type tournamentDTO struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Game       string `json:"game"`
	Archived   bool   `json:"archived"`
	HasBracket bool   `json:"hasBracket"`
}

type bracketResponseDTO struct {
	ServedFrom   string             `json:"servedFrom"`
	Matches      []matchDTO         `json:"matches"`
	Participants []participantDTO   `json:"participants"`
	Placements   []placementDTO     `json:"placements"`
	Metadata     bracketMetadataDTO `json:"metadata"`
}

type bracketMetadataDTO struct {
	TournamentID string    `json:"tournamentId"`
	Title        string    `json:"title"`
	BracketType  string    `json:"bracketType"`
	TotalRounds  int       `json:"totalRounds"`
	IsLive       bool      `json:"isLive"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

type matchDTO struct {
	ID          string             `json:"id"`
	Round       int                `json:"round"`
	NextMatchID string             `json:"nextMatchId,omitempty"`
	State       string             `json:"state"`
	Slots       [2]*participantDTO `json:"slots"`
}

type participantDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Seed       *int   `json:"seed,omitempty"`
	IsWinner   bool   `json:"isWinner"`
	ResultText string `json:"resultText,omitempty"`
	Status     string `json:"status,omitempty"`
}

type placementDTO struct {
	Place    int      `json:"place"`
	TeamName string   `json:"teamName"`
	TeamID   string   `json:"teamId"`
	Prize    string   `json:"prize,omitempty"`
	Members  []string `json:"members"`
}

func (h *Handler) GetBracket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBracket")
	defer span.End()

	slug := r.PathValue("slug")
	result, err := h.bracketService.GetBracket(ctx, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "get bracket failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Cache-Control", bracketCacheControl)
	writeSuccess(ctx, w, http.StatusOK, bracketResultToDTO(result))
}

func tournamentToDTO(t tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		Slug:       t.Slug,
		Title:      t.Title,
		Game:       t.Game,
		Archived:   t.Archived,
		HasBracket: t.HasExternalBracket(),
	}
}

func bracketResultToDTO(result usecase.BracketResult) bracketResponseDTO {
	data := result.Data

	matches := make([]matchDTO, 0, len(data.Matches))
	for _, m := range data.Matches {
		matches = append(matches, matchToDTO(m))
	}
	participants := make([]participantDTO, 0, len(data.Participants))
	for _, p := range data.Participants {
		participants = append(participants, participantToDTO(p))
	}
	placements := make([]placementDTO, 0, len(data.Placements))
	for _, p := range data.Placements {
		members := p.Members
		if members == nil {
			members = []string{}
		}
		placements = append(placements, placementDTO{
			Place:    p.Place,
			TeamName: p.TeamName,
			TeamID:   p.TeamID,
			Prize:    p.Prize,
			Members:  members,
		})
	}

	return bracketResponseDTO{
		ServedFrom:   string(result.Origin),
		Matches:      matches,
		Participants: participants,
		Placements:   placements,
		Metadata: bracketMetadataDTO{
			TournamentID: data.Metadata.TournamentID,
			Title:        data.Metadata.Title,
			BracketType:  string(data.Metadata.BracketType),
			TotalRounds:  data.Metadata.TotalRounds,
			IsLive:       data.Metadata.IsLive,
			LastUpdated:  data.Metadata.LastUpdated,
		},
	}
}

func matchToDTO(m bracket.Match) matchDTO {
	var slots [2]*participantDTO
	for i, slot := range m.Slots {
		if slot == nil {
			continue
		}
		dto := participantToDTO(*slot)
		slots[i] = &dto
	}
	return matchDTO{
		ID:          m.ID,
		Round:       m.Round,
		NextMatchID: m.NextMatchID,
		State:       string(m.State),
		Slots:       slots,
	}
}

func participantToDTO(p bracket.Participant) participantDTO {
	return participantDTO{
		ID:         p.ID,
		Name:       p.Name,
		Seed:       p.Seed,
		IsWinner:   p.IsWinner,
		ResultText: p.ResultText,
		Status:     string(p.Status),
	}
}
