// Package memory implements insights.Repository over the embedded dataset
// snapshot. It is the default repository and the swap target for warehouse
// refreshes.
package memory

import (
	"context"
	"sync"

	"github.com/prak-gup/SANTOOR/internal/dataset"
	"github.com/prak-gup/SANTOOR/internal/domain"
	"github.com/prak-gup/SANTOOR/internal/service/insights"
)

// Repo serves channel records from an in-memory snapshot. Reads take a
// shared lock so a warehouse refresh can atomically swap a partition.
type Repo struct {
	mu        sync.RWMutex
	markets   []domain.Market
	records   map[string]map[string][]domain.ChannelRecord // market -> scr -> records
	srcOrders map[string][]string                          // market -> scr names in listing order
}

// NewFromDataset builds the repository from the embedded dataset.
func NewFromDataset(ds *dataset.Dataset) *Repo {
	r := &Repo{
		records:   make(map[string]map[string][]domain.ChannelRecord),
		srcOrders: make(map[string][]string),
	}
	for _, m := range ds.Markets() {
		r.markets = append(r.markets, m)
		r.records[m.Code] = make(map[string][]domain.ChannelRecord)
		r.srcOrders[m.Code] = m.SCRs
		for _, scr := range m.SCRs {
			records, _ := ds.Records(m.Code, scr)
			r.records[m.Code][scr] = records
		}
	}
	return r
}

// Markets implements insights.Repository.
func (r *Repo) Markets(_ context.Context) ([]domain.Market, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Market(nil), r.markets...), nil
}

// SCRs implements insights.Repository.
func (r *Repo) SCRs(_ context.Context, market string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	scrs, ok := r.srcOrders[market]
	if !ok {
		return nil, insights.ErrMarketNotFound
	}
	return append([]string(nil), scrs...), nil
}

// Records implements insights.Repository.
func (r *Repo) Records(_ context.Context, market, scr string) ([]domain.ChannelRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	partitions, ok := r.records[market]
	if !ok {
		return nil, insights.ErrMarketNotFound
	}
	if scr != "" {
		records, ok := partitions[scr]
		if !ok {
			return nil, insights.ErrSCRNotFound
		}
		return append([]domain.ChannelRecord(nil), records...), nil
	}

	var out []domain.ChannelRecord
	for _, name := range r.srcOrders[market] {
		out = append(out, partitions[name]...)
	}
	return out, nil
}

// ReplacePartition atomically swaps the records for one market partition.
// Used by the warehouse refresh; unknown markets/SCRs are rejected so a
// refresh cannot invent partitions the dashboard doesn't know about.
func (r *Repo) ReplacePartition(market, scr string, records []domain.ChannelRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	partitions, ok := r.records[market]
	if !ok {
		return insights.ErrMarketNotFound
	}
	if _, ok := partitions[scr]; !ok {
		return insights.ErrSCRNotFound
	}
	partitions[scr] = append([]domain.ChannelRecord(nil), records...)
	return nil
}
