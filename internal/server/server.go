package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/quotewatch/isin-data/internal/api"
	"github.com/quotewatch/isin-data/internal/history"
	"github.com/quotewatch/isin-data/internal/model"
	"github.com/quotewatch/isin-data/internal/poller"
)

// SessionDirectory exposes the poller's session registry.
type SessionDirectory interface {
	Sessions() []poller.Session
	Session(id uuid.UUID) (poller.Session, bool)
	Latest(id uuid.UUID) (model.Snapshot, bool)
	SetInterval(id uuid.UUID, d time.Duration) error
}

// ExchangeSource looks up listings and chart metadata upstream.
type ExchangeSource interface {
	GetExchanges(ctx context.Context, isin string) (*api.ExchangesResponse, error)
	GetTimeRanges(ctx context.Context, isin string) ([]string, error)
}

// ChartProvider serves chart series, live or cached.
type ChartProvider interface {
	Fetch(ctx context.Context, q api.ChartQuery) (*history.Result, error)
}

// Config holds server configuration.
type Config struct {
	Port        int
	MinInterval time.Duration // Lower bound for interval updates
	MaxInterval time.Duration // Upper bound for interval updates
}

// Server is the HTTP and WebSocket surface of the watcher.
type Server struct {
	cfg       Config
	sessions  SessionDirectory
	exchanges ExchangeSource
	charts    ChartProvider
	hub       *Hub
	logger    *slog.Logger

	httpServer *http.Server
}

// New creates a Server. exchanges and charts may be nil, in which case the
// corresponding endpoints answer 503.
func New(cfg Config, sessions SessionDirectory, exchanges ExchangeSource, charts ChartProvider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:       cfg,
		sessions:  sessions,
		exchanges: exchanges,
		charts:    charts,
		hub:       NewHub(logger),
		logger:    logger,
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Hub returns the WebSocket hub so it can be subscribed to the poller.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins serving. It returns once the listener is bound; serving
// continues in the background until Stop.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != http.ErrServerClosed {
			s.logger.Error("http server error", "err", err)
		}
	}()

	s.logger.Info("server started", "addr", ln.Addr().String())
	return nil
}

// Stop drains connections and disconnects WebSocket clients.
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Close()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)
	mux.HandleFunc("GET /v1/sessions", s.handleSessions)
	mux.HandleFunc("GET /v1/sessions/{id}", s.handleSession)
	mux.HandleFunc("GET /v1/sessions/{id}/quote", s.handleQuote)
	mux.HandleFunc("PUT /v1/sessions/{id}/interval", s.handleSetInterval)
	mux.HandleFunc("GET /v1/instruments/{isin}/exchanges", s.handleExchanges)
	mux.HandleFunc("GET /v1/instruments/{isin}/timeranges", s.handleTimeRanges)
	mux.HandleFunc("GET /v1/instruments/{isin}/chart", s.handleChart)
	mux.Handle("GET /ws", s.hub)

	return mux
}
