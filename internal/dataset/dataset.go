// Package dataset loads the embedded per-market channel metrics.
//
// The dashboard works off a static snapshot baked into the binary: one JSON
// file per market, partitioned by SCR. Data is parsed and normalized exactly
// once at startup; everything downstream treats the records as immutable.
package dataset

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/prak-gup/SANTOOR/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// minDenominator floors the competitor reach when deriving a missing index,
// so a near-zero competitor can't blow the ratio up to infinity.
const minDenominator = 0.1

// marketFile is the on-disk shape of one embedded market file.
type marketFile struct {
	Code string                            `json:"code"`
	Name string                            `json:"name"`
	SCRs map[string][]domain.ChannelRecord `json:"scrs"`
}

// Dataset holds the normalized snapshot for all markets.
type Dataset struct {
	markets map[string]*marketFile
	order   []string // market codes, sorted for stable listings
}

// Load parses and normalizes every embedded market file.
func Load() (*Dataset, error) {
	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("reading embedded data dir: %w", err)
	}

	ds := &Dataset{markets: make(map[string]*marketFile)}
	for _, entry := range entries {
		raw, err := dataFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		var mf marketFile
		if err := json.Unmarshal(raw, &mf); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		if mf.Code == "" {
			return nil, fmt.Errorf("%s: market code is required", entry.Name())
		}
		if _, dup := ds.markets[mf.Code]; dup {
			return nil, fmt.Errorf("%s: duplicate market %s", entry.Name(), mf.Code)
		}

		for scr, records := range mf.SCRs {
			seen := make(map[string]bool, len(records))
			for i := range records {
				Normalize(&records[i])
				if seen[records[i].Channel] {
					return nil, fmt.Errorf("%s/%s: duplicate channel %q", mf.Code, scr, records[i].Channel)
				}
				seen[records[i].Channel] = true
			}
		}

		ds.markets[mf.Code] = &mf
		ds.order = append(ds.order, mf.Code)
	}

	if len(ds.markets) == 0 {
		return nil, fmt.Errorf("no embedded market data found")
	}
	sort.Strings(ds.order)
	return ds, nil
}

// Normalize floors malformed numeric fields to zero and derives a missing
// index from the raw reach values. Every ingestion path applies it, the
// embedded files here and warehouse rows in the refresher, so a record's
// derived fields never depend on where it came from.
func Normalize(r *domain.ChannelRecord) {
	if r.SantoorReach < 0 {
		r.SantoorReach = 0
	}
	if r.MaxCompReach < 0 {
		r.MaxCompReach = 0
	}
	if r.ChannelShare < 0 {
		r.ChannelShare = 0
	}
	if r.IndexVsCompetition < 0 {
		r.IndexVsCompetition = 0
	}
	if r.IndexVsCompetition == 0 && r.SantoorReach > 0 {
		denom := r.MaxCompReach
		if denom < minDenominator {
			denom = minDenominator
		}
		r.IndexVsCompetition = r.SantoorReach / denom * 100
	}
}

// Markets returns metadata for every loaded market, sorted by code.
func (d *Dataset) Markets() []domain.Market {
	out := make([]domain.Market, 0, len(d.order))
	for _, code := range d.order {
		mf := d.markets[code]
		out = append(out, domain.Market{Code: mf.Code, Name: mf.Name, SCRs: d.scrNames(mf)})
	}
	return out
}

// SCRs returns the SCR names for one market, or false if the market is unknown.
func (d *Dataset) SCRs(market string) ([]string, bool) {
	mf, ok := d.markets[market]
	if !ok {
		return nil, false
	}
	return d.scrNames(mf), true
}

// Records returns a copy of the records for a market partition. An empty scr
// selects all partitions of the market. The second return is false when the
// market (or the named SCR) does not exist.
func (d *Dataset) Records(market, scr string) ([]domain.ChannelRecord, bool) {
	mf, ok := d.markets[market]
	if !ok {
		return nil, false
	}
	if scr != "" {
		records, ok := mf.SCRs[scr]
		if !ok {
			return nil, false
		}
		return append([]domain.ChannelRecord(nil), records...), true
	}

	var out []domain.ChannelRecord
	for _, name := range d.scrNames(mf) {
		out = append(out, mf.SCRs[name]...)
	}
	return out, true
}

func (d *Dataset) scrNames(mf *marketFile) []string {
	names := make([]string, 0, len(mf.SCRs))
	for name := range mf.SCRs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
