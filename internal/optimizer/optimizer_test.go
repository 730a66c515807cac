package optimizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/prak-gup/SANTOOR/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatusBranches(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.ChannelRecord
		want domain.ChannelStatus
	}{
		{"both zero", domain.ChannelRecord{}, domain.StatusInactive},
		{"opportunity", domain.ChannelRecord{MaxCompReach: 2.0, ChannelShare: 1.0}, domain.StatusOpportunity},
		{"comp present but below reach gate", domain.ChannelRecord{MaxCompReach: 1.9, ChannelShare: 5}, domain.StatusInactive},
		{"comp present but below share gate", domain.ChannelRecord{MaxCompReach: 8, ChannelShare: 0.5}, domain.StatusInactive},
		{"monopoly", domain.ChannelRecord{SantoorReach: 10}, domain.StatusMonopoly},
		{"dominant at boundary", domain.ChannelRecord{SantoorReach: 5, MaxCompReach: 3, IndexVsCompetition: 150}, domain.StatusDominant},
		{"leading at boundary", domain.ChannelRecord{SantoorReach: 5, MaxCompReach: 3, IndexVsCompetition: 100}, domain.StatusLeading},
		{"leading below dominant", domain.ChannelRecord{SantoorReach: 5, MaxCompReach: 3, IndexVsCompetition: 149.9}, domain.StatusLeading},
		{"close at boundary", domain.ChannelRecord{SantoorReach: 5, MaxCompReach: 3, IndexVsCompetition: 80}, domain.StatusClose},
		{"behind at boundary", domain.ChannelRecord{SantoorReach: 5, MaxCompReach: 3, IndexVsCompetition: 50}, domain.StatusBehind},
		{"critical", domain.ChannelRecord{SantoorReach: 5, MaxCompReach: 3, IndexVsCompetition: 49.9}, domain.StatusCritical},
		{"critical at zero index", domain.ChannelRecord{SantoorReach: 5, MaxCompReach: 3}, domain.StatusCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.rec))
		})
	}
}

// ClassifyStatus is total: every combination of zero/non-zero reach and any
// index value lands in exactly one bucket.
func TestClassifyStatusTotal(t *testing.T) {
	reaches := []float64{0, 0.5, 3, 12}
	indexes := []float64{0, 49, 50, 79, 80, 99, 100, 149, 150, 400}
	for _, sr := range reaches {
		for _, cr := range reaches {
			for _, idx := range indexes {
				rec := domain.ChannelRecord{SantoorReach: sr, MaxCompReach: cr, ChannelShare: 2, IndexVsCompetition: idx}
				status := ClassifyStatus(rec)
				assert.NotEmpty(t, status, "reach=%v comp=%v idx=%v", sr, cr, idx)
			}
		}
	}
}

func records(reaches ...float64) []domain.ChannelRecord {
	out := make([]domain.ChannelRecord, len(reaches))
	for i, r := range reaches {
		out[i] = domain.ChannelRecord{Channel: fmt.Sprintf("ch-%d", i), SantoorReach: r}
	}
	return out
}

func TestProtectedChannelsSize(t *testing.T) {
	recs := records(10, 8, 6, 4, 2, 0, 0) // 5 with positive reach

	tests := []struct {
		threshold int
		wantSize  int
	}{
		{0, 0},
		{10, 1},  // ceil(0.1*5) = 1
		{50, 3},  // ceil(0.5*5) = 3
		{70, 4},  // ceil(0.7*5) = 4
		{90, 5},  // ceil(0.9*5) = 5
		{100, 5}, // all positive-reach channels
	}
	for _, tt := range tests {
		got := ProtectedChannels(recs, tt.threshold)
		assert.Len(t, got, tt.wantSize, "threshold=%d", tt.threshold)
	}

	// Monotonically non-decreasing in threshold.
	prev := 0
	for th := 0; th <= 100; th += 5 {
		size := len(ProtectedChannels(recs, th))
		assert.GreaterOrEqual(t, size, prev, "threshold=%d", th)
		prev = size
	}
}

func TestProtectedChannelsEdges(t *testing.T) {
	assert.Empty(t, ProtectedChannels(nil, 70))
	assert.Empty(t, ProtectedChannels(records(0, 0), 100))

	// Highest reach wins; zero-reach channels are never protected.
	got := ProtectedChannels(records(1, 9, 0), 30)
	assert.True(t, got["ch-1"])
	assert.False(t, got["ch-0"])
	assert.False(t, got["ch-2"])
}

func TestProtectedChannelsStableTieBreak(t *testing.T) {
	recs := []domain.ChannelRecord{
		{Channel: "first", SantoorReach: 5},
		{Channel: "second", SantoorReach: 5},
		{Channel: "third", SantoorReach: 5},
	}
	got := ProtectedChannels(recs, 34) // ceil(0.34*3) = 2
	assert.True(t, got["first"])
	assert.True(t, got["second"])
	assert.False(t, got["third"])
}

func TestEvaluateSkipsTrulyInactive(t *testing.T) {
	recs := []domain.ChannelRecord{
		{Channel: "dead"},
		{Channel: "alive", SantoorReach: 4, MaxCompReach: 3, IndexVsCompetition: 110},
	}
	results := Evaluate(recs, 15, 70)
	_, ok := results["dead"]
	assert.False(t, ok)
	_, ok = results["alive"]
	assert.True(t, ok)
}

// Zero Santoor reach with a competitor present but below the opportunity
// gates produces no entry at all.
func TestEvaluateNoEntryForFailedOpportunity(t *testing.T) {
	recs := []domain.ChannelRecord{
		{Channel: "weak-comp", MaxCompReach: 1.0, ChannelShare: 0.3},
	}
	results := Evaluate(recs, 15, 70)
	assert.Empty(t, results)
}

func TestEvaluateOpportunity(t *testing.T) {
	// Scenario A: comp reach 3, share 2 -> add, medium priority.
	recs := []domain.ChannelRecord{
		{Channel: "target", MaxCompReach: 3, ChannelShare: 2},
	}
	res := Evaluate(recs, 15, 70)["target"]
	assert.Equal(t, domain.RecommendAdd, res.Recommendation)
	assert.Equal(t, domain.PriorityMedium, res.Priority)
	assert.Equal(t, domain.StatusOpportunity, ClassifyStatus(recs[0]))

	// Priority escalates with competitor reach.
	res = Evaluate([]domain.ChannelRecord{{Channel: "big", MaxCompReach: 5.5, ChannelShare: 2}}, 15, 70)["big"]
	assert.Equal(t, domain.PriorityHigh, res.Priority)

	res = Evaluate([]domain.ChannelRecord{{Channel: "small", MaxCompReach: 2.5, ChannelShare: 2}}, 15, 70)["small"]
	assert.Equal(t, domain.PriorityLow, res.Priority)
}

func TestEvaluateIncrease(t *testing.T) {
	// Scenario B: reach 5, gap -6, index 60, intensity 15 -> increase, high.
	// A high-reach decoy keeps the target outside the protected percentile.
	recs := []domain.ChannelRecord{
		{Channel: "top", SantoorReach: 50, MaxCompReach: 10, IndexVsCompetition: 180},
		{Channel: "lagging", SantoorReach: 5, MaxCompReach: 11, Gap: -6, IndexVsCompetition: 60},
	}
	results := Evaluate(recs, 15, 50) // protects ceil(0.5*2)=1: "top" only

	res, ok := results["lagging"]
	require.True(t, ok)
	assert.Equal(t, domain.RecommendIncrease, res.Recommendation)
	assert.Equal(t, domain.PriorityHigh, res.Priority)
	assert.Contains(t, res.Reason, "6.0")
}

func TestEvaluateIncreasePriorityBuckets(t *testing.T) {
	base := domain.ChannelRecord{Channel: "ch", SantoorReach: 2, MaxCompReach: 6, IndexVsCompetition: 40}
	decoy := domain.ChannelRecord{Channel: "top", SantoorReach: 50, MaxCompReach: 10, IndexVsCompetition: 180}

	tests := []struct {
		gap  float64
		want domain.Priority
	}{
		{-6, domain.PriorityHigh},
		{-3, domain.PriorityMedium},
		{-2.1, domain.PriorityMedium},
		{-1.5, domain.PriorityLow},
	}
	for _, tt := range tests {
		rec := base
		rec.Gap = tt.gap
		res := Evaluate([]domain.ChannelRecord{decoy, rec}, 30, 50)["ch"]
		assert.Equal(t, domain.RecommendIncrease, res.Recommendation, "gap=%v", tt.gap)
		assert.Equal(t, tt.want, res.Priority, "gap=%v", tt.gap)
	}
}

func TestEvaluateProtectedMaintain(t *testing.T) {
	// Scenario D: protected channel with a weak index still gets maintain,
	// and the reason says so.
	recs := []domain.ChannelRecord{
		{Channel: "flagship", SantoorReach: 40, MaxCompReach: 60, IndexVsCompetition: 40},
	}
	res := Evaluate(recs, 15, 70)["flagship"]
	assert.Equal(t, domain.RecommendMaintain, res.Recommendation)
	assert.True(t, strings.Contains(strings.ToLower(res.Reason), "protected"), "reason: %s", res.Reason)
}

func TestEvaluateLeadingMaintain(t *testing.T) {
	// Unprotected but leading on index -> maintain with the leading reason.
	recs := []domain.ChannelRecord{
		{Channel: "top", SantoorReach: 50, MaxCompReach: 10, IndexVsCompetition: 180},
		{Channel: "leader", SantoorReach: 5, MaxCompReach: 4, IndexVsCompetition: 125},
	}
	res := Evaluate(recs, 15, 50)["leader"]
	assert.Equal(t, domain.RecommendMaintain, res.Recommendation)
	assert.True(t, strings.Contains(strings.ToLower(res.Reason), "leading"), "reason: %s", res.Reason)
}

func TestEvaluateDecrease(t *testing.T) {
	// The maintain rule (index >= 100) shadows the decrease rule
	// (index > 120), so a tiny channel with an outsized index still gets
	// maintain. Locked in as established behavior.
	recs := []domain.ChannelRecord{
		{Channel: "top", SantoorReach: 50, MaxCompReach: 10, IndexVsCompetition: 180},
		{Channel: "tiny", SantoorReach: 0.8, MaxCompReach: 0.5, IndexVsCompetition: 160},
	}
	res := Evaluate(recs, 15, 50)["tiny"]
	assert.Equal(t, domain.RecommendMaintain, res.Recommendation)
}

func TestEvaluateIntensityFlipsBorderlineGap(t *testing.T) {
	// Scenario E: gap -1.5 is inside the -1 cutoff at intensity 30 but
	// outside the -3 cutoff at intensity 5.
	recs := []domain.ChannelRecord{
		{Channel: "top", SantoorReach: 50, MaxCompReach: 10, IndexVsCompetition: 180},
		{Channel: "edge", SantoorReach: 3, MaxCompReach: 4.5, Gap: -1.5, IndexVsCompetition: 65},
	}

	gentle := Evaluate(recs, 5, 50)["edge"]
	assert.Equal(t, domain.RecommendMaintain, gentle.Recommendation)

	aggressive := Evaluate(recs, 30, 50)["edge"]
	assert.Equal(t, domain.RecommendIncrease, aggressive.Recommendation)
}

func TestEvaluateIdempotent(t *testing.T) {
	recs := []domain.ChannelRecord{
		{Channel: "a", SantoorReach: 12, MaxCompReach: 9, Gap: 3, ChannelShare: 4, IndexVsCompetition: 133},
		{Channel: "b", SantoorReach: 2, MaxCompReach: 7, Gap: -5, ChannelShare: 3, IndexVsCompetition: 55},
		{Channel: "c", MaxCompReach: 4, ChannelShare: 2},
		{Channel: "d"},
	}
	first := Evaluate(recs, 15, 70)
	second := Evaluate(recs, 15, 70)
	assert.Equal(t, first, second)
	assert.NotContains(t, second, "d")
}

func TestCutoffBuckets(t *testing.T) {
	assert.Equal(t, -3.0, gapCutoff(5))
	assert.Equal(t, -3.0, gapCutoff(10))
	assert.Equal(t, -2.0, gapCutoff(11))
	assert.Equal(t, -2.0, gapCutoff(20))
	assert.Equal(t, -1.0, gapCutoff(21))
	assert.Equal(t, -1.0, gapCutoff(30))

	assert.Equal(t, 70.0, indexCutoff(10))
	assert.Equal(t, 80.0, indexCutoff(20))
	assert.Equal(t, 90.0, indexCutoff(30))
}
