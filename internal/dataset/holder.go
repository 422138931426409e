package dataset

import (
	"pos-proximity/internal/entitystore"
	"pos-proximity/internal/metrics"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LoadFunc produces the raw records of one dataset load.
type LoadFunc func() ([]entitystore.Record, error)

// Holder owns the current entity store. The store is replaced only by an
// explicit Reload; a failed reload keeps the previous store.
type Holder struct {
	load   LoadFunc
	logger *zap.Logger

	reloadMu sync.Mutex

	mu       sync.RWMutex
	store    *entitystore.Store
	loadedAt time.Time
}

func NewHolder(load LoadFunc, logger *zap.Logger) *Holder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Holder{
		load:   load,
		logger: logger,
		store:  entitystore.New(nil),
	}
}

// FileLoader loads path with opts on every call.
func FileLoader(path string, opts Options) LoadFunc {
	return func() ([]entitystore.Record, error) {
		return Load(path, opts)
	}
}

// Reload rebuilds the store from the loader and swaps it in.
func (h *Holder) Reload() (entitystore.Stats, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	start := time.Now()

	records, err := h.load()
	if err != nil {
		metrics.DatasetReloadsTotal.WithLabelValues("error").Inc()
		h.logger.Error("dataset reload failed", zap.Error(err))
		return h.Store().Stats(), err
	}

	store := entitystore.New(records)
	stats := store.Stats()

	h.mu.Lock()
	h.store = store
	h.loadedAt = time.Now()
	h.mu.Unlock()

	metrics.DatasetReloadsTotal.WithLabelValues("ok").Inc()
	metrics.DatasetEntities.WithLabelValues("outlet").Set(float64(stats.Outlets))
	metrics.DatasetEntities.WithLabelValues("producer").Set(float64(stats.Producers))

	h.logger.Info("dataset loaded",
		zap.Int("rows", stats.Rows),
		zap.Int("outlets", stats.Outlets),
		zap.Int("producers", stats.Producers),
		zap.Int("missing_coords", stats.MissingCoords),
		zap.Int("unknown_role", stats.UnknownRole),
		zap.Duration("took", time.Since(start)),
	)
	return stats, nil
}

// Store returns the current store. It is immutable and safe to keep for the
// duration of a query even if a reload happens meanwhile.
func (h *Holder) Store() *entitystore.Store {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.store
}

func (h *Holder) LoadedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadedAt
}
