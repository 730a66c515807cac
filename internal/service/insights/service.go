package insights

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/prak-gup/SANTOOR/internal/domain"
	"github.com/prak-gup/SANTOOR/internal/optimizer"
	"github.com/prak-gup/SANTOOR/internal/pkg/logger"
)

// Parameter bounds for optimization runs. Out-of-range client values are
// clamped here, never rejected; the engine itself does not validate.
const (
	MinIntensity = 5
	MaxIntensity = 30
	MinThreshold = 50
	MaxThreshold = 90
)

// Service implements the dashboard read-side logic. All public methods are
// safe for concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo  Repository
	cache RunCache // nil when caching is disabled
}

// NewService creates an insights service backed by the given repository.
// cache may be nil.
func NewService(repo Repository, cache RunCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Markets returns every tracked market.
func (s *Service) Markets(ctx context.Context) ([]domain.Market, error) {
	return s.repo.Markets(ctx)
}

// SCRs returns the SCR partitions for one market.
func (s *Service) SCRs(ctx context.Context, market string) ([]string, error) {
	return s.repo.SCRs(ctx, market)
}

// ChannelInsight is a channel record annotated with its derived status.
type ChannelInsight struct {
	domain.ChannelRecord
	Status domain.ChannelStatus `json:"status"`
}

// Channels returns the filtered, sorted page of channels for a partition,
// plus the total count before pagination.
func (s *Service) Channels(ctx context.Context, market, scr string, f ChannelFilter) ([]ChannelInsight, int, error) {
	records, err := s.repo.Records(ctx, market, scr)
	if err != nil {
		return nil, 0, err
	}

	insights := make([]ChannelInsight, 0, len(records))
	search := strings.ToLower(f.Search)
	for _, r := range records {
		if f.Genre != "" && !strings.EqualFold(r.Genre, f.Genre) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Channel), search) {
			continue
		}
		insights = append(insights, ChannelInsight{ChannelRecord: r, Status: optimizer.ClassifyStatus(r)})
	}

	sortInsights(insights, f.SortBy, f.Order)

	total := len(insights)
	if f.Offset > 0 {
		if f.Offset >= len(insights) {
			return nil, total, nil
		}
		insights = insights[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(insights) {
		insights = insights[:f.Limit]
	}
	return insights, total, nil
}

func sortInsights(insights []ChannelInsight, sortBy, order string) {
	if sortBy == "" {
		return // source order
	}

	key := func(c ChannelInsight) float64 { return c.SantoorReach }
	switch sortBy {
	case "gap":
		key = func(c ChannelInsight) float64 { return c.Gap }
	case "index":
		key = func(c ChannelInsight) float64 { return c.IndexVsCompetition }
	case "share":
		key = func(c ChannelInsight) float64 { return c.ChannelShare }
	case "channel":
		asc := order != "desc"
		sort.SliceStable(insights, func(i, j int) bool {
			if asc {
				return insights[i].Channel < insights[j].Channel
			}
			return insights[i].Channel > insights[j].Channel
		})
		return
	}

	// Numeric keys default to descending: dashboards read top-down.
	asc := order == "asc"
	sort.SliceStable(insights, func(i, j int) bool {
		if asc {
			return key(insights[i]) < key(insights[j])
		}
		return key(insights[i]) > key(insights[j])
	})
}

// Summary aggregates a partition's channel metrics for the overview cards.
type Summary struct {
	Market       string                       `json:"market"`
	SCR          string                       `json:"scr,omitempty"`
	ChannelCount int                          `json:"channel_count"`
	StatusCounts map[domain.ChannelStatus]int `json:"status_counts"`
	AverageGap   float64                      `json:"average_gap"`
	AverageIndex float64                      `json:"average_index"`
	TotalShare   float64                      `json:"total_share"`
	TopChannel   string                       `json:"top_channel"`
}

// Summary computes aggregate stats over a market partition. Truly inactive
// channels count toward StatusCounts but are excluded from the averages.
func (s *Service) Summary(ctx context.Context, market, scr string) (*Summary, error) {
	records, err := s.repo.Records(ctx, market, scr)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	sum := &Summary{
		Market:       market,
		SCR:          scr,
		ChannelCount: len(records),
		StatusCounts: make(map[domain.ChannelStatus]int),
	}

	var active int
	var topReach float64
	for _, r := range records {
		sum.StatusCounts[optimizer.ClassifyStatus(r)]++
		sum.TotalShare += r.ChannelShare
		if r.IsInactive() {
			continue
		}
		active++
		sum.AverageGap += r.Gap
		sum.AverageIndex += r.IndexVsCompetition
		if r.SantoorReach > topReach {
			topReach = r.SantoorReach
			sum.TopChannel = r.Channel
		}
	}
	if active > 0 {
		sum.AverageGap /= float64(active)
		sum.AverageIndex /= float64(active)
	}
	return sum, nil
}

// Optimize runs the recommendation engine over one SCR partition. Intensity
// and threshold are clamped to their valid ranges before evaluation. Runs
// are read-through cached per (market, scr, intensity, threshold) when a
// cache is configured.
func (s *Service) Optimize(ctx context.Context, market, scr string, intensity, threshold int) (*domain.OptimizationRun, error) {
	if scr == "" {
		return nil, ErrSCRRequired
	}
	intensity = clamp(intensity, MinIntensity, MaxIntensity)
	threshold = clamp(threshold, MinThreshold, MaxThreshold)

	key := fmt.Sprintf("%s|%s|%d|%d", market, scr, intensity, threshold)
	if s.cache != nil {
		if run, ok := s.cache.GetRun(ctx, key); ok {
			return run, nil
		}
	}

	records, err := s.repo.Records(ctx, market, scr)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	results := optimizer.Evaluate(records, intensity, threshold)

	run := &domain.OptimizationRun{
		ID:        uuid.New().String(),
		Market:    market,
		SCR:       scr,
		Intensity: intensity,
		Threshold: threshold,
		Results:   make([]domain.OptimizationResult, 0, len(results)),
		Counts:    make(map[string]int),
	}
	for _, res := range results {
		run.Results = append(run.Results, res)
		run.Counts[string(res.Recommendation)]++
	}
	sortResults(run.Results)

	if s.cache != nil {
		s.cache.PutRun(ctx, key, run)
	}
	logger.Info("optimization run complete",
		"market", market, "scr", scr,
		"intensity", intensity, "threshold", threshold,
		"results", len(run.Results))
	return run, nil
}

var priorityRank = map[domain.Priority]int{
	domain.PriorityHigh:   0,
	domain.PriorityMedium: 1,
	domain.PriorityLow:    2,
}

// sortResults orders by priority, then channel name for a stable listing.
func sortResults(results []domain.OptimizationResult) {
	sort.Slice(results, func(i, j int) bool {
		if priorityRank[results[i].Priority] != priorityRank[results[j].Priority] {
			return priorityRank[results[i].Priority] < priorityRank[results[j].Priority]
		}
		return results[i].Channel < results[j].Channel
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
