package tournament

import "fmt"

// Tournament is one event from the org's tournament registry. MatcherinoID
// links the event to its page on the bracket/payment platform; zero means the
// event is manually curated and has no external bracket source.
type Tournament struct {
	Slug         string
	Title        string
	Game         string
	MatcherinoID int64
	Archived     bool
}

func (t Tournament) Validate() error {
	if t.Slug == "" {
		return fmt.Errorf("tournament slug is required")
	}
	if t.Title == "" {
		return fmt.Errorf("tournament title is required")
	}

	return nil
}

// HasExternalBracket reports whether a live bracket can be fetched for the
// tournament.
func (t Tournament) HasExternalBracket() bool {
	return t.MatcherinoID > 0
}
