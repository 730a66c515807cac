package insights

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/prak-gup/SANTOOR/internal/optimizer"
)

var csvHeader = []string{
	"channel", "genre", "santoor_reach", "max_comp_reach",
	"gap", "channel_share", "index_vs_competition", "atc_index", "status",
}

// ExportCSV writes a partition's records, with derived statuses, as CSV.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, market, scr string) error {
	records, err := s.repo.Records(ctx, market, scr)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, r := range records {
		atc := ""
		if r.ATCIndex != nil {
			atc = strconv.FormatFloat(*r.ATCIndex, 'f', 1, 64)
		}
		row := []string{
			r.Channel,
			r.Genre,
			strconv.FormatFloat(r.SantoorReach, 'f', 1, 64),
			strconv.FormatFloat(r.MaxCompReach, 'f', 1, 64),
			strconv.FormatFloat(r.Gap, 'f', 1, 64),
			strconv.FormatFloat(r.ChannelShare, 'f', 1, 64),
			strconv.FormatFloat(r.IndexVsCompetition, 'f', 1, 64),
			atc,
			string(optimizer.ClassifyStatus(r)),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", r.Channel, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
