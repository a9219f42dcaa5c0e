package store

// Phase labels for the consultant conversation lifecycle.
const (
	PhaseGreeting     = "GREETING"
	PhaseDiscovery    = "DISCOVERY"
	PhaseRecommending = "RECOMMENDING"
	PhaseWrappingUp   = "WRAPPING_UP"
	PhaseCompleted    = "COMPLETED"
	PhaseAbandoned    = "ABANDONED"
)

// Preferences holds what we have learned about the user so far.
// Zero values mean "not stated yet".
type Preferences struct {
	Playstyles   []string `json:"playstyles,omitempty"` // combat, trading, exploration, mining, ...
	BudgetMaxUSD float64  `json:"budget_max_usd,omitempty"`
	BudgetMinUSD float64  `json:"budget_min_usd,omitempty"`
	CrewMax      int      `json:"crew_max,omitempty"`
	CargoMinSCU  int      `json:"cargo_min_scu,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	DoneSignal   bool     `json:"done_signal,omitempty"`
}

// Actionable reports whether we know enough to start recommending.
func (p Preferences) Actionable() bool {
	return len(p.Playstyles) > 0 || p.BudgetMaxUSD > 0 || p.CrewMax > 0 || p.CargoMinSCU > 0
}

// PendingCandidate is the ship currently on the table waiting for an
// accept/reject signal from the user.
type PendingCandidate struct {
	ShipID    string  `json:"ship_id"`
	ShipName  string  `json:"ship_name"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// Session is the in-memory runtime state for one conversation. The durable
// record (transcript, fleet, status) lives in Postgres; this carries only
// what a turn needs between requests.
type Session struct {
	ID          string            `json:"id"` // conversation id
	Phase       string            `json:"phase"`
	Preferences Preferences       `json:"preferences"`
	Excluded    []string          `json:"excluded"` // rejected ship ids, session lifetime
	Pending     *PendingCandidate `json:"pending,omitempty"`
	LastQuery   string            `json:"last_query"`
}

// IsExcluded reports whether the ship was rejected earlier in this session.
func (s *Session) IsExcluded(shipID string) bool {
	for _, id := range s.Excluded {
		if id == shipID {
			return true
		}
	}
	return false
}

// Exclude records a rejected ship id. Duplicates are ignored.
func (s *Session) Exclude(shipID string) {
	if !s.IsExcluded(shipID) {
		s.Excluded = append(s.Excluded, shipID)
	}
}
