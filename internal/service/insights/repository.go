package insights

import (
	"context"

	"github.com/prak-gup/SANTOOR/internal/domain"
)

// Repository defines the data access contract for channel metrics.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Markets returns every tracked market with its SCR partitions.
	Markets(ctx context.Context) ([]domain.Market, error)

	// SCRs returns the SCR names for one market. Returns ErrMarketNotFound
	// if the market is unknown.
	SCRs(ctx context.Context, market string) ([]string, error)

	// Records returns the channel records for a market partition in source
	// order. An empty scr selects all partitions of the market. Returns
	// ErrMarketNotFound or ErrSCRNotFound for unknown keys.
	Records(ctx context.Context, market, scr string) ([]domain.ChannelRecord, error)
}

// RunCache is a read-through cache for optimization runs. Implementations
// must treat misses and transport failures identically: return ok=false and
// let the caller recompute.
type RunCache interface {
	GetRun(ctx context.Context, key string) (*domain.OptimizationRun, bool)
	PutRun(ctx context.Context, key string, run *domain.OptimizationRun)
}

// ChannelFilter controls filtering, sorting, and pagination for channel
// listings.
type ChannelFilter struct {
	Genre  string
	Search string // case-insensitive substring on channel name
	SortBy string // reach, gap, index, share, channel (default: source order)
	Order  string // asc or desc (default desc for numeric keys, asc for channel)
	Limit  int
	Offset int
}
