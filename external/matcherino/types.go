package matcherino

// Tournament is the platform's bounty payload as returned by the findById
// endpoint. Only the fields the site consumes are mapped.
type Tournament struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Teams   []Team   `json:"teams"`
	Payouts []Payout `json:"payouts"`
}

type Team struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

type Member struct {
	DisplayName string `json:"displayName"`
}

// Payout links a placement to its winning teams. TotalAmount is absent for
// placements without prize money.
type Payout struct {
	PlaceLow    int          `json:"placeLow"`
	Teams       []PayoutTeam `json:"teams"`
	TotalAmount *float64     `json:"totalAmount"`
}

type PayoutTeam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type findByIDEnvelope struct {
	Body Tournament `json:"body"`
}
