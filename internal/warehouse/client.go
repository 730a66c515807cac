// Package warehouse pulls fresh channel metrics from a Snowflake table.
//
// The embedded dataset is the system of record; the warehouse is an optional
// refresh path for deployments where the research agency lands updated reach
// numbers in Snowflake between binary releases.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prak-gup/SANTOOR/internal/config"
	"github.com/prak-gup/SANTOOR/internal/domain"
	_ "github.com/snowflakedb/gosnowflake" // Snowflake driver
)

// Client provides read access to the channel metrics warehouse table.
type Client struct {
	config config.SnowflakeConfig
	db     *sql.DB
}

// NewClient creates a new Snowflake client
func NewClient(cfg config.SnowflakeConfig) (*Client, error) {
	db, err := sql.Open("snowflake", BuildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Client{
		config: cfg,
		db:     db,
	}, nil
}

// BuildDSN assembles the gosnowflake DSN.
// Format: user:password@account/database/schema?warehouse=xxx
func BuildDSN(cfg config.SnowflakeConfig) string {
	dsn := fmt.Sprintf("%s:%s@%s/%s/%s",
		cfg.User,
		cfg.Password,
		cfg.Account,
		cfg.Database,
		cfg.Schema,
	)
	if cfg.Warehouse != "" {
		dsn += "?warehouse=" + cfg.Warehouse
	}
	return dsn
}

// Close closes the database connection
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping tests the database connection
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// FetchRecords returns the warehouse rows for one market partition.
func (c *Client) FetchRecords(ctx context.Context, market, scr string) ([]domain.ChannelRecord, error) {
	query := fmt.Sprintf(`
		SELECT CHANNEL, GENRE, SANTOOR_REACH, MAX_COMP_REACH, GAP,
		       CHANNEL_SHARE, INDEX_VS_COMPETITION, ATC_INDEX
		FROM %s
		WHERE MARKET = ? AND SCR = ?
		ORDER BY CHANNEL`, c.config.Table)

	rows, err := c.db.QueryContext(ctx, query, market, scr)
	if err != nil {
		return nil, fmt.Errorf("failed to query channel metrics: %w", err)
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
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		if atc.Valid {
			v := atc.Float64
			rec.ATCIndex = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
