package quote

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quotewatch/isin-data/internal/calendar"
	"github.com/quotewatch/isin-data/internal/model"
)

// Source fetches one instrument snapshot from the upstream. An empty
// exchangeCode requests the default listing. Implementations perform
// exactly one bounded upstream call per invocation and return classified
// errors; retry and fallback policy lives in the coordinator.
type Source interface {
	FetchSnapshot(ctx context.Context, isin, exchangeCode string) (model.Snapshot, error)
}

// SourceFunc is a function adapter for Source.
type SourceFunc func(ctx context.Context, isin, exchangeCode string) (model.Snapshot, error)

func (f SourceFunc) FetchSnapshot(ctx context.Context, isin, exchangeCode string) (model.Snapshot, error) {
	return f(ctx, isin, exchangeCode)
}

// Config holds coordinator configuration.
type Config struct {
	Instrument     model.Instrument
	OpenInterval   time.Duration    // Interval while the market is open (default: 1m)
	ClosedInterval time.Duration    // Interval while the market is closed (default: 30m)
	Now            func() time.Time // Clock override for tests (default: time.Now)
}

// DefaultConfig returns sensible defaults for the given instrument.
func DefaultConfig(instr model.Instrument) Config {
	return Config{
		Instrument:     instr,
		OpenInterval:   time.Minute,
		ClosedInterval: 30 * time.Minute,
	}
}

// Coordinator drives the refresh cycles for a single instrument. All
// methods are safe for concurrent use, but Refresh calls themselves must
// be serialized by the scheduling driver.
type Coordinator struct {
	cfg    Config
	source Source
	cal    *calendar.Calendar
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	interval  time.Duration
	snapshot  *model.Snapshot
	lastState calendar.State
}

// New creates a Coordinator. The initial interval is the instrument's
// user-configured one.
func New(cfg Config, source Source, cal *calendar.Calendar, logger *slog.Logger) *Coordinator {
	if cfg.OpenInterval <= 0 {
		cfg.OpenInterval = time.Minute
	}
	if cfg.ClosedInterval <= 0 {
		cfg.ClosedInterval = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Coordinator{
		cfg:      cfg,
		source:   source,
		cal:      cal,
		logger:   logger,
		now:      now,
		interval: cfg.Instrument.Interval,
	}
}

// Refresh runs one poll cycle and returns the latest snapshot.
//
// The market state decides the strategy: Unknown always fetches with the
// missing-price fallback and leaves the interval alone; Open fetches with
// fallback at the fast interval; Closed serves the cached snapshot without
// any network call, falling back to a single seed fetch only when no cache
// exists yet. Errors from a required fetch propagate classified and leave
// the cached snapshot untouched.
func (c *Coordinator) Refresh(ctx context.Context) (model.Snapshot, error) {
	instr := c.cfg.Instrument
	state := c.cal.IsOpen(instr.ExchangeCode, c.now())

	c.mu.Lock()
	c.lastState = state
	cached := c.snapshot
	c.mu.Unlock()

	if state == calendar.StateUnknown {
		// No market-hours entry: poll at the user's interval, always live.
		snap, err := c.fetchWithFallback(ctx)
		if err != nil {
			return model.Snapshot{}, err
		}
		c.store(snap)
		return snap, nil
	}

	c.adaptInterval(state)

	if state == calendar.StateClosed {
		if cached != nil {
			c.logger.Debug("market closed, serving cached snapshot",
				"isin", instr.ISIN,
				"exchange", instr.ExchangeCode,
			)
			return *cached, nil
		}

		// First-ever cycle while closed: one seed fetch, no fallback.
		snap, err := c.source.FetchSnapshot(ctx, instr.ISIN, instr.ExchangeCode)
		if err != nil {
			return model.Snapshot{}, err
		}
		c.store(snap)
		return snap, nil
	}

	snap, err := c.fetchWithFallback(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	c.store(snap)
	return snap, nil
}

// fetchWithFallback fetches with the configured exchange and retries once
// against the default listing when the response succeeds without a usable
// price. Transport and HTTP failures propagate immediately; the fallback
// never fires on an error.
func (c *Coordinator) fetchWithFallback(ctx context.Context) (model.Snapshot, error) {
	instr := c.cfg.Instrument

	snap, err := c.source.FetchSnapshot(ctx, instr.ISIN, instr.ExchangeCode)
	if err != nil {
		return model.Snapshot{}, err
	}
	if snap.HasPrice() || instr.ExchangeCode == "" {
		return snap, nil
	}

	c.logger.Debug("no price on selected exchange, falling back to default listing",
		"isin", instr.ISIN,
		"exchange", instr.ExchangeCode,
	)
	return c.source.FetchSnapshot(ctx, instr.ISIN, "")
}

// adaptInterval switches between the fast and slow interval for a known
// market state. Takes effect when the driver schedules the next cycle.
func (c *Coordinator) adaptInterval(state calendar.State) {
	desired := c.cfg.OpenInterval
	if state == calendar.StateClosed {
		desired = c.cfg.ClosedInterval
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.interval != desired {
		c.logger.Debug("adapting poll interval",
			"isin", c.cfg.Instrument.ISIN,
			"state", state.String(),
			"from", c.interval,
			"to", desired,
		)
		c.interval = desired
	}
}

// store replaces the cached snapshot. Single assignment point, only
// reached after a fully successful fetch.
func (c *Coordinator) store(snap model.Snapshot) {
	c.mu.Lock()
	c.snapshot = &snap
	c.mu.Unlock()
}

// SetInterval replaces the current poll interval, e.g. after a user
// configuration change. It takes effect for the next scheduling decision
// and does not trigger a refresh.
func (c *Coordinator) SetInterval(d time.Duration) {
	c.mu.Lock()
	c.interval = d
	c.mu.Unlock()
}

// Interval returns the current poll interval.
func (c *Coordinator) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// Latest returns the cached snapshot, if any.
func (c *Coordinator) Latest() (model.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return model.Snapshot{}, false
	}
	return *c.snapshot, true
}

// MarketState returns the market state observed by the most recent
// refresh cycle.
func (c *Coordinator) MarketState() calendar.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastState
}

// Instrument returns the configured instrument.
func (c *Coordinator) Instrument() model.Instrument {
	return c.cfg.Instrument
}
