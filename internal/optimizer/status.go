package optimizer

import "github.com/prak-gup/SANTOOR/internal/domain"

// Opportunity gates: a channel Santoor is absent from only counts as an
// opportunity when the competition has meaningful reach and the channel
// itself carries meaningful share.
const (
	opportunityMinCompReach = 2.0
	opportunityMinShare     = 1.0
)

// ClassifyStatus maps one channel record to its competitive status. The
// branches are evaluated in strict priority order; first match wins.
//
// Note: a channel with zero Santoor reach and a present but sub-threshold
// competitor collapses to inactive. That under-reports weak competitive
// presence, but it is the established dashboard behavior and downstream
// consumers depend on it.
func ClassifyStatus(rec domain.ChannelRecord) domain.ChannelStatus {
	switch {
	case rec.SantoorReach == 0 && rec.MaxCompReach == 0:
		return domain.StatusInactive
	case rec.SantoorReach == 0 && rec.MaxCompReach >= opportunityMinCompReach && rec.ChannelShare >= opportunityMinShare:
		return domain.StatusOpportunity
	case rec.SantoorReach == 0:
		return domain.StatusInactive
	case rec.MaxCompReach == 0:
		return domain.StatusMonopoly
	}

	// Both sides active: bucket by index vs competition.
	switch {
	case rec.IndexVsCompetition >= 150:
		return domain.StatusDominant
	case rec.IndexVsCompetition >= 100:
		return domain.StatusLeading
	case rec.IndexVsCompetition >= 80:
		return domain.StatusClose
	case rec.IndexVsCompetition >= 50:
		return domain.StatusBehind
	default:
		return domain.StatusCritical
	}
}
