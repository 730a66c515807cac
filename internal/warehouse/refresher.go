package warehouse

import (
	"context"
	"fmt"

	"github.com/prak-gup/SANTOOR/internal/dataset"
	"github.com/prak-gup/SANTOOR/internal/domain"
	"github.com/prak-gup/SANTOOR/internal/pkg/logger"
)

// PartitionWriter is the sink for refreshed records. Implemented by the
// in-memory repository.
type PartitionWriter interface {
	ReplacePartition(market, scr string, records []domain.ChannelRecord) error
}

// Refresher swaps warehouse data into the serving repository.
type Refresher struct {
	client *Client
	writer PartitionWriter
}

// NewRefresher creates a refresher over the given client and sink.
func NewRefresher(client *Client, writer PartitionWriter) *Refresher {
	return &Refresher{client: client, writer: writer}
}

// Refresh pulls every listed partition from the warehouse and swaps the
// non-empty ones into the repository. Partitions the warehouse has no rows
// for keep their current records. Returns the number of partitions swapped.
//
// Warehouse rows go through the same Normalize pass and duplicate-channel
// check as the embedded files, so derived fields and validation do not
// depend on the ingestion path.
func (r *Refresher) Refresh(ctx context.Context, markets []domain.Market) (int, error) {
	swapped := 0
	for _, m := range markets {
		for _, scr := range m.SCRs {
			records, err := r.client.FetchRecords(ctx, m.Code, scr)
			if err != nil {
				return swapped, fmt.Errorf("fetching %s/%s: %w", m.Code, scr, err)
			}
			if len(records) == 0 {
				logger.Debug("warehouse has no rows for partition", "market", m.Code, "scr", scr)
				continue
			}
			seen := make(map[string]bool, len(records))
			for i := range records {
				dataset.Normalize(&records[i])
				if seen[records[i].Channel] {
					return swapped, fmt.Errorf("refreshing %s/%s: duplicate channel %q", m.Code, scr, records[i].Channel)
				}
				seen[records[i].Channel] = true
			}
			if err := r.writer.ReplacePartition(m.Code, scr, records); err != nil {
				return swapped, fmt.Errorf("swapping %s/%s: %w", m.Code, scr, err)
			}
			swapped++
		}
	}
	logger.Info("warehouse refresh complete", "partitions", swapped)
	return swapped, nil
}
