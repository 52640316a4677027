package matcherino

import (
	"reflect"
	"testing"
	"time"

	"github.com/hexis-gg/site-api/internal/domain/bracket"
)

func ptrFloat(v float64) *float64 { return &v }

func TestNormalize_TopFourPayoutsWithTeamLookup(t *testing.T) {
	t.Parallel()

	src := Tournament{
		ID:     146021,
		Name:   "Hexis Open Spring 2026",
		Status: "in_progress",
		Teams: []Team{
			{ID: 7, Name: "Alpha", Members: []Member{{DisplayName: "X"}}},
		},
		Payouts: []Payout{
			{PlaceLow: 1, Teams: []PayoutTeam{{ID: 7, Name: "Alpha"}}, TotalAmount: ptrFloat(500)},
			{PlaceLow: 2, Teams: []PayoutTeam{{ID: 8, Name: "Beta"}}},
			{PlaceLow: 9, Teams: []PayoutTeam{{ID: 9, Name: "Gamma"}}},
		},
	}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := Normalize(src, now)

	want := []bracket.Placement{
		{Place: 1, TeamName: "Alpha", TeamID: "7", Prize: "$500", Members: []string{"X"}},
		{Place: 2, TeamName: "Beta", TeamID: "8", Prize: "", Members: []string{}},
	}
	if !reflect.DeepEqual(out.Placements, want) {
		t.Fatalf("unexpected placements:\n got %+v\nwant %+v", out.Placements, want)
	}

	if !out.Metadata.IsLive {
		t.Fatalf("expected in_progress status to map to IsLive")
	}
	if out.Metadata.TournamentID != "146021" || out.Metadata.Title != "Hexis Open Spring 2026" {
		t.Fatalf("unexpected metadata: %+v", out.Metadata)
	}
	if !out.Metadata.LastUpdated.Equal(now) {
		t.Fatalf("unexpected last-updated: %v", out.Metadata.LastUpdated)
	}
	if len(out.Matches) != 0 || out.Matches == nil {
		t.Fatalf("expected empty non-nil matches, got %#v", out.Matches)
	}
	if len(out.Participants) != 0 || out.Participants == nil {
		t.Fatalf("expected empty non-nil participants, got %#v", out.Participants)
	}
}

func TestNormalize_SortsPlacementsForAnyInputOrder(t *testing.T) {
	t.Parallel()

	src := Tournament{
		ID:   1,
		Name: "Shuffle Cup",
		Payouts: []Payout{
			{PlaceLow: 4, Teams: []PayoutTeam{{ID: 4, Name: "Fourth"}}},
			{PlaceLow: 1, Teams: []PayoutTeam{{ID: 1, Name: "First"}}},
			{PlaceLow: 3, Teams: []PayoutTeam{{ID: 3, Name: "Third"}}},
			{PlaceLow: 2, Teams: []PayoutTeam{{ID: 2, Name: "Second"}}},
		},
	}

	out := Normalize(src, time.Now())
	for i := 1; i < len(out.Placements); i++ {
		if out.Placements[i-1].Place > out.Placements[i].Place {
			t.Fatalf("placements not sorted ascending: %+v", out.Placements)
		}
	}
	if len(out.Placements) != 4 {
		t.Fatalf("expected 4 placements, got %d", len(out.Placements))
	}
}

func TestNormalize_TiesSharePlace(t *testing.T) {
	t.Parallel()

	src := Tournament{
		Payouts: []Payout{
			{PlaceLow: 3, Teams: []PayoutTeam{{ID: 5, Name: "SemiA"}, {ID: 6, Name: "SemiB"}}, TotalAmount: ptrFloat(100)},
		},
	}

	out := Normalize(src, time.Now())
	if len(out.Placements) != 2 {
		t.Fatalf("expected one placement per tied team, got %d", len(out.Placements))
	}
	for _, p := range out.Placements {
		if p.Place != 3 || p.Prize != "$100" {
			t.Fatalf("unexpected tied placement: %+v", p)
		}
	}
}

func TestNormalize_MissingFieldsDefault(t *testing.T) {
	t.Parallel()

	src := Tournament{
		Teams: []Team{{ID: 11}},
		Payouts: []Payout{
			{PlaceLow: 1, Teams: []PayoutTeam{{ID: 11}}},
		},
	}

	out := Normalize(src, time.Now())
	if len(out.Placements) != 1 {
		t.Fatalf("expected one placement, got %d", len(out.Placements))
	}
	p := out.Placements[0]
	if p.TeamName != "" || p.TeamID != "11" || p.Prize != "" {
		t.Fatalf("expected empty-string defaults, got %+v", p)
	}
	if p.Members == nil || len(p.Members) != 0 {
		t.Fatalf("expected empty non-nil members, got %#v", p.Members)
	}
}
