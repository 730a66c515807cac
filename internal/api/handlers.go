package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prak-gup/SANTOOR/internal/config"
	"github.com/prak-gup/SANTOOR/internal/domain"
	"github.com/prak-gup/SANTOOR/internal/pkg/distlock"
	"github.com/prak-gup/SANTOOR/internal/pkg/logger"
	"github.com/prak-gup/SANTOOR/internal/service/insights"
	"github.com/prak-gup/SANTOOR/internal/warehouse"
)

// Flusher drops cached optimization runs. Satisfied by cache.RunCache; nil
// when caching is disabled.
type Flusher interface {
	Flush(ctx context.Context) error
}

// LockFactory mints a fresh single-use lock per refresh attempt. Locks carry
// a per-instance ownership value, so they cannot be shared across requests.
type LockFactory func() distlock.Lock

// Handlers contains all HTTP handlers
type Handlers struct {
	svc         *insights.Service
	refresher   *warehouse.Refresher
	flusher     Flusher
	refreshLock LockFactory
	config      *config.Config
}

// NewHandlers creates a new Handlers instance. refresher and flusher may be
// nil when the warehouse/cache integrations are disabled.
func NewHandlers(svc *insights.Service, cfg *config.Config) *Handlers {
	return &Handlers{svc: svc, config: cfg}
}

// SetRefresher sets the warehouse refresher
func (h *Handlers) SetRefresher(r *warehouse.Refresher) {
	h.refresher = r
}

// SetFlusher sets the run-cache flusher
func (h *Handlers) SetFlusher(f Flusher) {
	h.flusher = f
}

// SetRefreshLock sets the lock factory used to serialize warehouse refreshes
// across replicas.
func (h *Handlers) SetRefreshLock(f LockFactory) {
	h.refreshLock = f
}

// GetMarkets returns every tracked market with its SCR partitions
func (h *Handlers) GetMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.svc.Markets(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"markets": markets})
}

// GetSCRs returns the SCR partitions for one market
func (h *Handlers) GetSCRs(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")
	scrs, err := h.svc.SCRs(r.Context(), market)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"market": market, "scrs": scrs})
}

// GetChannels returns the filtered channel listing for a market partition
func (h *Handlers) GetChannels(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")
	q := r.URL.Query()

	filter := insights.ChannelFilter{
		Genre:  q.Get("genre"),
		Search: q.Get("search"),
		SortBy: q.Get("sort"),
		Order:  q.Get("order"),
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	channels, total, err := h.svc.Channels(r.Context(), market, q.Get("scr"), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"market":   market,
		"scr":      q.Get("scr"),
		"total":    total,
		"channels": channels,
	})
}

// GetSummary returns aggregate stats for a market partition
func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")
	summary, err := h.svc.Summary(r.Context(), market, r.URL.Query().Get("scr"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// optimizeRequest is the body for POST /api/markets/{market}/optimize.
// Omitted intensity/threshold fall back to configured defaults; out-of-range
// values are clamped by the service, never rejected.
type optimizeRequest struct {
	SCR       string `json:"scr"`
	Intensity *int   `json:"intensity"`
	Threshold *int   `json:"threshold"`
}

// Optimize runs the recommendation engine over one SCR partition
func (h *Handlers) Optimize(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	intensity := h.config.Optimizer.DefaultIntensity
	if req.Intensity != nil {
		intensity = *req.Intensity
	}
	threshold := h.config.Optimizer.DefaultThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	run, err := h.svc.Optimize(r.Context(), market, req.SCR, intensity, threshold)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// ExportCSV streams a partition's records as a CSV download
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")
	scr := r.URL.Query().Get("scr")

	filename := market
	if scr != "" {
		filename += "-" + scr
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="santoor-%s.csv"`, filename))

	cw := &countingWriter{w: w}
	if err := h.svc.ExportCSV(r.Context(), cw, market, scr); err != nil {
		if cw.written == 0 {
			// Nothing sent yet (lookup errors surface before the first
			// flush); a proper error response is still possible.
			w.Header().Del("Content-Disposition")
			respondServiceError(w, err)
			return
		}
		// Mid-stream failure: the CSV is already partially on the wire, so
		// appending a JSON body would corrupt the download. Abort and log.
		logger.Error("csv export aborted mid-stream",
			"market", market, "scr", scr, "written", cw.written, "error", err)
	}
}

// countingWriter tracks whether any response bytes have gone out.
type countingWriter struct {
	w       http.ResponseWriter
	written int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += n
	return n, err
}

// GetStyles returns the presentation metadata tables
func (h *Handlers) GetStyles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"statuses":        domain.StatusStyles,
		"recommendations": domain.RecommendationStyles,
	})
}

// Refresh swaps warehouse data into the serving repository
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondError(w, http.StatusServiceUnavailable, "warehouse refresh is not configured")
		return
	}

	if h.refreshLock != nil {
		lock := h.refreshLock()
		ok, err := lock.Acquire(r.Context())
		if err != nil {
			// Lock backend down; refresh anyway rather than block operations.
			logger.Warn("refresh lock unavailable", "error", err)
		} else if !ok {
			respondError(w, http.StatusConflict, "a refresh is already in progress")
			return
		} else {
			defer lock.Release(r.Context())
		}
	}

	markets, err := h.svc.Markets(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	swapped, err := h.refresher.Refresh(r.Context(), markets)
	if err != nil {
		respondError(w, http.StatusBadGateway, fmt.Sprintf("warehouse refresh failed: %v", err))
		return
	}

	if h.flusher != nil {
		if err := h.flusher.Flush(r.Context()); err != nil {
			respondError(w, http.StatusInternalServerError, fmt.Sprintf("refreshed %d partitions but cache flush failed: %v", swapped, err))
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"partitions_refreshed": swapped})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service sentinel errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, insights.ErrMarketNotFound), errors.Is(err, insights.ErrSCRNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, insights.ErrSCRRequired):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, insights.ErrNoRecords):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
