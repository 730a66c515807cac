package optimizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/prak-gup/SANTOOR/internal/domain"
)

// ProtectedChannels returns the set of channel names that are exempt from
// demotion: the top ceil(threshold/100 * N) channels by Santoor reach,
// restricted to channels with positive reach. Ties keep input order.
//
// threshold is a percentile in [0,100]; 0 yields an empty set, 100 protects
// every channel with positive reach.
func ProtectedChannels(records []domain.ChannelRecord, threshold int) map[string]bool {
	active := make([]domain.ChannelRecord, 0, len(records))
	for _, r := range records {
		if r.SantoorReach > 0 {
			active = append(active, r)
		}
	}

	protected := make(map[string]bool)
	if len(active) == 0 || threshold <= 0 {
		return protected
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].SantoorReach > active[j].SantoorReach
	})

	n := int(math.Ceil(float64(threshold) / 100 * float64(len(active))))
	if n > len(active) {
		n = len(active)
	}
	for _, r := range active[:n] {
		protected[r.Channel] = true
	}
	return protected
}

// gapCutoff returns the gap threshold for the given intensity tier.
func gapCutoff(intensity int) float64 {
	switch {
	case intensity <= 10:
		return -3
	case intensity <= 20:
		return -2
	default:
		return -1
	}
}

// indexCutoff returns the index-vs-competition threshold below which an
// underperforming channel qualifies for a budget increase.
func indexCutoff(intensity int) float64 {
	switch {
	case intensity <= 10:
		return 70
	case intensity <= 20:
		return 80
	default:
		return 90
	}
}

// Evaluate runs the rule-based optimization pass over a partition's records.
// intensity is expected in [5,30] and threshold in [50,90]; callers clamp.
//
// The returned map holds at most one entry per channel name. Channels with
// zero reach on both sides are excluded entirely: true inactivity is not
// reported. Rules are evaluated first-match-wins per record:
//
//  1. Opportunity (Santoor absent, competitor established) -> add
//  2. Underperforming and not covered by index -> increase
//  3. Protected or already leading -> maintain
//  4. Low reach with an outsized index -> decrease (reallocation candidate)
//  5. Any other active channel -> maintain
func Evaluate(records []domain.ChannelRecord, intensity, threshold int) map[string]domain.OptimizationResult {
	protected := ProtectedChannels(records, threshold)
	gapThreshold := gapCutoff(intensity)
	indexThreshold := indexCutoff(intensity)

	results := make(map[string]domain.OptimizationResult, len(records))
	for _, rec := range records {
		if rec.IsInactive() {
			continue
		}
		if res, ok := evaluateOne(rec, protected[rec.Channel], gapThreshold, indexThreshold); ok {
			results[rec.Channel] = res
		}
	}
	return results
}

func evaluateOne(rec domain.ChannelRecord, isProtected bool, gapThreshold, indexThreshold float64) (domain.OptimizationResult, bool) {
	switch {
	case rec.SantoorReach == 0 && rec.MaxCompReach >= opportunityMinCompReach && rec.ChannelShare >= opportunityMinShare:
		priority := domain.PriorityLow
		if rec.MaxCompReach > 5 {
			priority = domain.PriorityHigh
		} else if rec.MaxCompReach > 3 {
			priority = domain.PriorityMedium
		}
		return domain.OptimizationResult{
			Channel:        rec.Channel,
			Recommendation: domain.RecommendAdd,
			Priority:       priority,
			Reason:         fmt.Sprintf("Competitor reaches %.1f%% with %.1f%% channel share; Santoor is absent", rec.MaxCompReach, rec.ChannelShare),
		}, true

	case rec.SantoorReach > 0 && rec.Gap < gapThreshold && rec.IndexVsCompetition < indexThreshold:
		priority := domain.PriorityLow
		if rec.Gap < -5 {
			priority = domain.PriorityHigh
		} else if rec.Gap < -2 {
			priority = domain.PriorityMedium
		}
		return domain.OptimizationResult{
			Channel:        rec.Channel,
			Recommendation: domain.RecommendIncrease,
			Priority:       priority,
			Reason:         fmt.Sprintf("Trailing best competitor by %.1f pts at index %.0f", -rec.Gap, rec.IndexVsCompetition),
		}, true

	case isProtected || rec.IndexVsCompetition >= 100:
		reason := "Leading the competition; hold current spend"
		if isProtected {
			reason = "Protected top performer by reach; hold current spend"
		}
		return domain.OptimizationResult{
			Channel:        rec.Channel,
			Recommendation: domain.RecommendMaintain,
			Priority:       domain.PriorityLow,
			Reason:         reason,
		}, true

	case rec.SantoorReach > 0 && rec.SantoorReach < 1.5 && rec.IndexVsCompetition > 120:
		return domain.OptimizationResult{
			Channel:        rec.Channel,
			Recommendation: domain.RecommendDecrease,
			Priority:       domain.PriorityLow,
			Reason:         fmt.Sprintf("Only %.1f%% reach despite a strong index; budget can be reallocated", rec.SantoorReach),
		}, true

	case rec.SantoorReach > 0:
		return domain.OptimizationResult{
			Channel:        rec.Channel,
			Recommendation: domain.RecommendMaintain,
			Priority:       domain.PriorityLow,
			Reason:         "Stable performance; no change recommended",
		}, true
	}

	// Zero Santoor reach, opportunity gates unmet: nothing to recommend.
	return domain.OptimizationResult{}, false
}
