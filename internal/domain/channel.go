package domain

// ChannelStatus enumerates the competitive standing of a channel, derived
// from its reach metrics relative to the best competitor.
type ChannelStatus string

const (
	StatusInactive    ChannelStatus = "inactive"
	StatusOpportunity ChannelStatus = "opportunity"
	StatusMonopoly    ChannelStatus = "monopoly"
	StatusDominant    ChannelStatus = "dominant"
	StatusLeading     ChannelStatus = "leading"
	StatusClose       ChannelStatus = "close"
	StatusBehind      ChannelStatus = "behind"
	StatusCritical    ChannelStatus = "critical"
)

// Recommendation enumerates budget actions the optimizer can suggest.
type Recommendation string

const (
	RecommendIncrease Recommendation = "increase"
	RecommendMaintain Recommendation = "maintain"
	RecommendAdd      Recommendation = "add"
	RecommendDecrease Recommendation = "decrease"
)

// Priority enumerates how urgent a recommendation is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ChannelRecord holds the pre-computed campaign metrics for one TV channel
// within a market/SCR partition. All percentage fields are non-negative;
// Gap is the only signed field. Records are immutable per evaluation.
type ChannelRecord struct {
	Channel            string  `json:"channel" db:"channel"`
	Genre              string  `json:"genre" db:"genre"`
	SantoorReach       float64 `json:"santoor_reach" db:"santoor_reach"`
	MaxCompReach       float64 `json:"max_comp_reach" db:"max_comp_reach"`
	Gap                float64 `json:"gap" db:"gap"`
	ChannelShare       float64 `json:"channel_share" db:"channel_share"`
	IndexVsCompetition float64 `json:"index_vs_competition" db:"index_vs_competition"`

	// CompetitorReach holds per-competitor reach values when the source
	// data breaks them out. Optional; nil when only MaxCompReach is known.
	CompetitorReach map[string]float64 `json:"competitor_reach,omitempty" db:"-"`

	// ATCIndex is the Karnataka-specific alternate performance metric.
	// Nil for all other markets.
	ATCIndex *float64 `json:"atc_index,omitempty" db:"atc_index"`
}

// IsInactive reports whether the channel shows no activity on either side.
// Truly inactive channels are excluded from optimization output entirely.
func (c ChannelRecord) IsInactive() bool {
	return c.SantoorReach == 0 && c.MaxCompReach == 0
}

// OptimizationResult is the optimizer's verdict for a single channel.
type OptimizationResult struct {
	Channel        string         `json:"channel"`
	Recommendation Recommendation `json:"recommendation"`
	Priority       Priority       `json:"priority"`
	Reason         string         `json:"reason"`
}

// OptimizationRun wraps one full optimization pass over a market partition.
type OptimizationRun struct {
	ID        string               `json:"id"`
	Market    string               `json:"market"`
	SCR       string               `json:"scr,omitempty"`
	Intensity int                  `json:"intensity"`
	Threshold int                  `json:"threshold"`
	Results   []OptimizationResult `json:"results"`
	Counts    map[string]int       `json:"counts"`
}

// Market describes one of the tracked markets and its SCR partitions.
type Market struct {
	Code string   `json:"code"` // "AP", "KA", "MH"
	Name string   `json:"name"`
	SCRs []string `json:"scrs"`
}
