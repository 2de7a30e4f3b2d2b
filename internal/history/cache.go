package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/quotewatch/isin-data/internal/api"
)

// rangeIntraday has no OHLC variant upstream; requests for it always
// degrade to a line series.
const rangeIntraday = "Intraday"

// ChartSource fetches one chart series from the upstream.
type ChartSource interface {
	GetChartData(ctx context.Context, q api.ChartQuery) (json.RawMessage, error)
}

// Origin says where a result's payload came from.
type Origin string

const (
	OriginLive  Origin = "live"
	OriginCache Origin = "cache"
)

// Result is a chart payload plus its provenance.
type Result struct {
	Query     api.ChartQuery
	Payload   json.RawMessage
	Origin    Origin
	File      string // Cache file the payload lives in
	UpdatedAt time.Time
}

// Cache fetches chart series and mirrors them to JSON files.
type Cache struct {
	dir    string
	source ChartSource
	logger *slog.Logger
}

// NewCache creates a Cache rooted at dir. The directory is created on
// first use.
func NewCache(dir string, source ChartSource, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{dir: dir, source: source, logger: logger}
}

// Filename returns the cache file name for a query.
func Filename(q api.ChartQuery) string {
	flag := "line"
	if q.OHLC {
		flag = "ohlc"
	}
	return fmt.Sprintf("%s__%d_%d__%s__%s.json", q.ISIN, q.ExchangeID, q.CurrencyID, q.TimeRange, flag)
}

// Fetch retrieves a chart series, preferring live data. A live success is
// written through to the cache file; a live failure is answered from the
// cache when a previous payload exists, and propagated otherwise.
func (c *Cache) Fetch(ctx context.Context, q api.ChartQuery) (*Result, error) {
	// Intraday has no OHLC data.
	if q.TimeRange == rangeIntraday {
		q.OHLC = false
	}

	file := filepath.Join(c.dir, Filename(q))

	payload, err := c.source.GetChartData(ctx, q)
	if err != nil {
		cached, readErr := c.read(file)
		if readErr != nil {
			return nil, err // propagate the upstream failure, not the cache miss
		}
		c.logger.Warn("chart fetch failed, serving cached payload",
			"isin", q.ISIN,
			"range", q.TimeRange,
			"error", err,
		)
		return &Result{Query: q, Payload: cached, Origin: OriginCache, File: file, UpdatedAt: time.Now().UTC()}, nil
	}

	if writeErr := c.write(file, payload); writeErr != nil {
		// A failed cache write must not fail the fetch.
		c.logger.Warn("chart cache write failed", "file", file, "error", writeErr)
	}

	return &Result{Query: q, Payload: payload, Origin: OriginLive, File: file, UpdatedAt: time.Now().UTC()}, nil
}

// Cached returns the cached payload for a query, if any.
func (c *Cache) Cached(q api.ChartQuery) (json.RawMessage, bool) {
	if q.TimeRange == rangeIntraday {
		q.OHLC = false
	}
	payload, err := c.read(filepath.Join(c.dir, Filename(q)))
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (c *Cache) read(file string) (json.RawMessage, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Debug("chart cache read failed", "file", file, "error", err)
		}
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("cached payload %s is not valid JSON", file)
	}
	return json.RawMessage(data), nil
}

func (c *Cache) write(file string, payload json.RawMessage) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, file)
}
