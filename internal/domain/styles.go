package domain

// Style is presentation metadata for a status or recommendation value.
// The frontend reads this table instead of hard-coding colors; the
// optimizer itself never touches it.
type Style struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// StatusStyles maps each channel status to its presentation metadata.
var StatusStyles = map[ChannelStatus]Style{
	StatusInactive:    {Label: "Inactive", Color: "#9ca3af", Icon: "minus-circle"},
	StatusOpportunity: {Label: "Opportunity", Color: "#8b5cf6", Icon: "sparkles"},
	StatusMonopoly:    {Label: "Monopoly", Color: "#0ea5e9", Icon: "crown"},
	StatusDominant:    {Label: "Dominant", Color: "#16a34a", Icon: "trending-up"},
	StatusLeading:     {Label: "Leading", Color: "#22c55e", Icon: "arrow-up"},
	StatusClose:       {Label: "Close", Color: "#eab308", Icon: "arrows-left-right"},
	StatusBehind:      {Label: "Behind", Color: "#f97316", Icon: "arrow-down"},
	StatusCritical:    {Label: "Critical", Color: "#dc2626", Icon: "alert-triangle"},
}

// RecommendationStyles maps each recommendation to its presentation metadata.
var RecommendationStyles = map[Recommendation]Style{
	RecommendIncrease: {Label: "Increase", Color: "#16a34a", Icon: "plus"},
	RecommendMaintain: {Label: "Maintain", Color: "#0ea5e9", Icon: "equals"},
	RecommendAdd:      {Label: "Add", Color: "#8b5cf6", Icon: "plus-circle"},
	RecommendDecrease: {Label: "Decrease", Color: "#dc2626", Icon: "minus"},
}
