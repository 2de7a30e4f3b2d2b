package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quotewatch/isin-data/internal/calendar"
	"github.com/quotewatch/isin-data/internal/model"
	"github.com/quotewatch/isin-data/internal/quote"
)

// SnapshotHandler receives snapshots from successful refresh cycles.
type SnapshotHandler interface {
	HandleSnapshot(sessionID uuid.UUID, snapshot model.Snapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(uuid.UUID, model.Snapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(id uuid.UUID, s model.Snapshot) error {
	return f(id, s)
}

// Config holds poller configuration.
type Config struct {
	CycleTimeout time.Duration // Per-cycle fetch deadline (default: 45s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CycleTimeout: 45 * time.Second,
	}
}

// Session is a read-only view of one instrument's polling state.
type Session struct {
	ID          uuid.UUID
	Instrument  model.Instrument
	MarketState calendar.State
	Interval    time.Duration
	Available   bool
	LastError   string
	LastCycle   time.Time
}

// session is the live registry entry behind a Session view.
type session struct {
	id    uuid.UUID
	coord *quote.Coordinator

	mu        sync.Mutex
	available bool
	lastError string
	lastCycle time.Time
}

func (s *session) view() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{
		ID:          s.id,
		Instrument:  s.coord.Instrument(),
		MarketState: s.coord.MarketState(),
		Interval:    s.coord.Interval(),
		Available:   s.available,
		LastError:   s.lastError,
		LastCycle:   s.lastCycle,
	}
}

// Poller runs the refresh loops for all registered coordinators.
type Poller struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
	handlers []SnapshotHandler
	started  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = DefaultConfig().CycleTimeout
	}
	return &Poller{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[uuid.UUID]*session),
	}
}

// Register adds a coordinator to the registry and returns its session id.
// When the poller is already running the session's loop starts immediately.
func (p *Poller) Register(coord *quote.Coordinator) uuid.UUID {
	s := &session{
		id:    uuid.New(),
		coord: coord,
	}

	p.mu.Lock()
	p.sessions[s.id] = s
	running := p.started
	p.mu.Unlock()

	if running {
		p.wg.Add(1)
		go p.runSession(s)
	}

	p.logger.Info("session registered",
		"session_id", s.id,
		"isin", coord.Instrument().ISIN,
		"exchange", coord.Instrument().ExchangeCode,
	)

	return s.id
}

// Subscribe adds a handler for successful snapshots. Handlers must be
// registered before Start.
func (p *Poller) Subscribe(h SnapshotHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Sessions returns views of all registered sessions.
func (p *Poller) Sessions() []Session {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		out = append(out, s.view())
	}
	return out
}

// Session returns the view for a single session id.
func (p *Poller) Session(id uuid.UUID) (Session, bool) {
	p.mu.RLock()
	s, ok := p.sessions[id]
	p.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	return s.view(), true
}

// Latest returns the cached snapshot for a session, if any.
func (p *Poller) Latest(id uuid.UUID) (model.Snapshot, bool) {
	p.mu.RLock()
	s, ok := p.sessions[id]
	p.mu.RUnlock()
	if !ok {
		return model.Snapshot{}, false
	}
	return s.coord.Latest()
}

// SetInterval updates the user interval for a session. The change takes
// effect when the session's loop re-arms after its current cycle.
func (p *Poller) SetInterval(id uuid.UUID, d time.Duration) error {
	p.mu.RLock()
	s, ok := p.sessions[id]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown session %s", id)
	}
	s.coord.SetInterval(d)
	p.logger.Info("interval updated", "session_id", id, "interval", d)
	return nil
}

// Start begins a refresh loop for every registered session.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.mu.Lock()
	p.started = true
	sessions := make([]*session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.mu.Unlock()

	for _, s := range sessions {
		p.wg.Add(1)
		go p.runSession(s)
	}

	p.logger.Info("poller started",
		"sessions", len(sessions),
		"cycle_timeout", p.cfg.CycleTimeout,
	)

	return nil
}

// Stop gracefully shuts down all session loops.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runSession is one session's refresh loop. Cycles never overlap: the
// timer is re-armed from the coordinator's interval only after the
// previous cycle finished.
func (p *Poller) runSession(s *session) {
	defer p.wg.Done()

	// Refresh immediately on start.
	p.cycle(s)

	for {
		timer := time.NewTimer(s.coord.Interval())
		select {
		case <-p.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			p.cycle(s)
		}
	}
}

// cycle runs a single refresh and records the outcome.
func (p *Poller) cycle(s *session) {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.CycleTimeout)
	defer cancel()

	snap, err := s.coord.Refresh(ctx)

	s.mu.Lock()
	s.lastCycle = time.Now()
	if err != nil {
		s.available = false
		s.lastError = err.Error()
	} else {
		s.available = true
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		p.logger.Warn("refresh cycle failed",
			"session_id", s.id,
			"isin", s.coord.Instrument().ISIN,
			"err", err,
		)
		return
	}

	p.dispatch(s.id, snap)
}

// dispatch fans a snapshot out to all handlers.
func (p *Poller) dispatch(id uuid.UUID, snap model.Snapshot) {
	p.mu.RLock()
	handlers := p.handlers
	p.mu.RUnlock()

	for _, h := range handlers {
		if err := h.HandleSnapshot(id, snap); err != nil {
			p.logger.Warn("snapshot handler failed",
				"session_id", id,
				"isin", snap.ISIN,
				"err", err,
			)
		}
	}
}
