package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quotewatch/isin-data/internal/model"
)

// Config holds history writer configuration.
type Config struct {
	BatchSize     int           // Rows per insert batch (default: 100)
	FlushInterval time.Duration // Max time a row waits in the batch (default: 5s)
	BufferSize    int           // Initial queue capacity (default: 1000)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     100,
		FlushInterval: 5 * time.Second,
		BufferSize:    1000,
	}
}

// Metrics holds writer counters.
type Metrics struct {
	Inserts   int64
	Conflicts int64
	Flushes   int64
	Errors    int64
}

// historyRow is the flattened database representation of a snapshot.
type historyRow struct {
	ISIN           string
	ExchangeCode   string
	FetchedAt      time.Time
	Price          *float64
	ChangePercent  *float64
	ChangeAbsolute *float64
	CurrencySign   string
	PriceChangedAt *time.Time
}

// HistoryWriter consumes snapshots from its queue and writes them to the
// quote_history table in batches.
type HistoryWriter struct {
	cfg    Config
	logger *slog.Logger

	input *Queue[model.Snapshot]
	db    *pgxpool.Pool

	batch   []historyRow
	batchMu sync.Mutex
	metrics Metrics

	flushTicker *time.Ticker
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewHistoryWriter creates a HistoryWriter over the given pool.
func NewHistoryWriter(cfg Config, db *pgxpool.Pool, logger *slog.Logger) *HistoryWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultConfig().FlushInterval
	}
	if cfg.BufferSize < 1 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	return &HistoryWriter{
		cfg:    cfg,
		logger: logger,
		input:  NewQueue[model.Snapshot](cfg.BufferSize),
		db:     db,
		batch:  make([]historyRow, 0, cfg.BatchSize),
	}
}

// Enqueue hands a snapshot to the writer. Safe to call from the poller's
// notification path; never blocks on the database.
func (w *HistoryWriter) Enqueue(snap model.Snapshot) bool {
	return w.input.Enqueue(snap)
}

// Start begins consuming snapshots and writing to the database.
func (w *HistoryWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("history writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer, flushing any buffered rows.
func (w *HistoryWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping history writer")

	if w.cancel != nil {
		w.cancel()
	}
	w.input.Close()
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("history writer stopped")
	case <-ctx.Done():
		w.logger.Warn("history writer stop timed out")
	}

	// Pull stragglers left in the queue, then final flush.
	for _, snap := range w.input.Drain(0) {
		w.appendRow(w.transform(snap))
	}
	w.flush(context.WithoutCancel(ctx))

	return nil
}

// Stats returns current metrics.
func (w *HistoryWriter) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads snapshots from the queue and accumulates batches.
func (w *HistoryWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		snap, ok := w.input.TryDequeue()
		if !ok {
			select {
			case <-w.ctx.Done():
				return
			case <-time.After(10 * time.Millisecond):
				continue
			}
		}
		w.handleSnapshot(snap)
	}
}

// flushLoop periodically flushes the batch.
func (w *HistoryWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

func (w *HistoryWriter) handleSnapshot(snap model.Snapshot) {
	if w.appendRow(w.transform(snap)) {
		w.flush(w.ctx)
	}
}

// appendRow adds a row to the batch and reports whether the batch is full.
func (w *HistoryWriter) appendRow(row historyRow) bool {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	w.batch = append(w.batch, row)
	return len(w.batch) >= w.cfg.BatchSize
}

// transform converts a snapshot to a history row.
func (w *HistoryWriter) transform(snap model.Snapshot) historyRow {
	row := historyRow{
		ISIN:           snap.ISIN,
		ExchangeCode:   snap.ExchangeCode,
		FetchedAt:      snap.FetchedAt.UTC(),
		Price:          snap.Price,
		ChangePercent:  snap.ChangePercent,
		ChangeAbsolute: snap.ChangeAbsolute,
		CurrencySign:   snap.CurrencySign,
	}
	if !snap.PriceChangedAt.IsZero() {
		t := snap.PriceChangedAt.UTC()
		row.PriceChangedAt = &t
	}
	return row
}

// flush writes the current batch to the database.
func (w *HistoryWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}
	batch := w.batch
	w.batch = make([]historyRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed quote history",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *HistoryWriter) batchInsert(ctx context.Context, rows []historyRow) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO quote_history (isin, exchange_code, fetched_at, price, change_percent, change_absolute, currency_sign, price_changed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (isin, exchange_code, fetched_at) DO NOTHING
		`, r.ISIN, r.ExchangeCode, r.FetchedAt, r.Price, r.ChangePercent, r.ChangeAbsolute, r.CurrencySign, r.PriceChangedAt)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
