// Package postgres implements insights.Repository against PostgreSQL, for
// deployments that load the metrics snapshot into a database instead of
// using the embedded dataset. Schema lives in migrations/.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/prak-gup/SANTOOR/internal/domain"
	"github.com/prak-gup/SANTOOR/internal/service/insights"
)

// ChannelRepo implements insights.Repository against PostgreSQL.
type ChannelRepo struct{ db *sql.DB }

// NewChannelRepo creates a Postgres-backed channel metrics repository.
func NewChannelRepo(db *sql.DB) *ChannelRepo { return &ChannelRepo{db: db} }

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}

func (r *ChannelRepo) Markets(ctx context.Context) ([]domain.Market, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.code, m.name, ARRAY_AGG(DISTINCT c.scr ORDER BY c.scr)
		FROM markets m
		JOIN channel_metrics c ON c.market = m.code
		GROUP BY m.code, m.name
		ORDER BY m.code
	`)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	defer rows.Close()

	var out []domain.Market
	for rows.Next() {
		var m domain.Market
		var scrs pq.StringArray
		if err := rows.Scan(&m.Code, &m.Name, &scrs); err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}
		m.SCRs = []string(scrs)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ChannelRepo) SCRs(ctx context.Context, market string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT scr FROM channel_metrics WHERE market = $1 ORDER BY scr
	`, market)
	if err != nil {
		return nil, fmt.Errorf("list scrs: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var scr string
		if err := rows.Scan(&scr); err != nil {
			return nil, fmt.Errorf("scan scr: %w", err)
		}
		out = append(out, scr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, insights.ErrMarketNotFound
	}
	return out, nil
}

func (r *ChannelRepo) Records(ctx context.Context, market, scr string) ([]domain.ChannelRecord, error) {
	q := `
		SELECT channel, genre, santoor_reach, max_comp_reach, gap,
		       channel_share, index_vs_competition, atc_index
		FROM channel_metrics
		WHERE market = $1`
	args := []interface{}{market}
	if scr != "" {
		q += ` AND scr = $2`
		args = append(args, scr)
	}
	q += ` ORDER BY scr, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []domain.ChannelRecord
	for rows.Next() {
		var rec domain.ChannelRecord
		var atc sql.NullFloat64
		if err := rows.Scan(
			&rec.Channel, &rec.Genre, &rec.SantoorReach, &rec.MaxCompReach,
			&rec.Gap, &rec.ChannelShare, &rec.IndexVsCompetition, &atc,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if atc.Valid {
			v := atc.Float64
			rec.ATCIndex = &v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		if scr != "" {
			return nil, insights.ErrSCRNotFound
		}
		return nil, insights.ErrMarketNotFound
	}
	return out, nil
}
