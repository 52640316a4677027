package bracket

import "time"

// Type is the bracket format of a tournament.
type Type string

const (
	TypeSingle Type = "single"
	TypeDouble Type = "double"
	TypeSwiss  Type = "swiss"
)

// MatchState is the scheduling state of a single bracket match.
type MatchState string

const (
	MatchScheduled MatchState = "SCHEDULED"
	MatchRunning   MatchState = "RUNNING"
	MatchDone      MatchState = "DONE"
	MatchCancelled MatchState = "CANCELLED"
)

// SlotStatus is a participant's per-match status.
type SlotStatus string

const (
	SlotPlayed   SlotStatus = "PLAYED"
	SlotNoShow   SlotStatus = "NO_SHOW"
	SlotWalkOver SlotStatus = "WALK_OVER"
	SlotPending  SlotStatus = "PENDING"
)

// Data is the internal bracket projection for one tournament. Every field is
// derived from third-party state and replaced wholesale on refetch; an empty
// Matches slice is a valid degraded shape, not an error.
type Data struct {
	Matches      []Match
	Participants []Participant
	Placements   []Placement
	Metadata     Metadata
}

type Metadata struct {
	TournamentID string
	Title        string
	BracketType  Type
	TotalRounds  int
	IsLive       bool
	LastUpdated  time.Time
}

// Match has exactly two optional participant slots; byes and unresolved
// slots leave entries nil.
type Match struct {
	ID          string
	Round       int
	NextMatchID string
	State       MatchState
	Slots       [2]*Participant
}

type Participant struct {
	ID         string
	Name       string
	Seed       *int
	IsWinner   bool
	ResultText string
	Status     SlotStatus
}

// Placement is a team's final standing. Place values may repeat (ties) and
// need not be contiguous; slices of Placement are kept sorted ascending by
// Place.
type Placement struct {
	Place    int
	TeamName string
	TeamID   string
	Prize    string
	Members  []string
}

// Empty returns a bracket with no matches, participants or placements, for
// tournaments that have no external bracket source configured.
func Empty(tournamentID, title string, isLive bool, now time.Time) Data {
	return Data{
		Matches:      []Match{},
		Participants: []Participant{},
		Placements:   []Placement{},
		Metadata: Metadata{
			TournamentID: tournamentID,
			Title:        title,
			BracketType:  TypeSingle,
			IsLive:       isLive,
			LastUpdated:  now,
		},
	}
}
