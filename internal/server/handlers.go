package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/quotewatch/isin-data/internal/api"
	"github.com/quotewatch/isin-data/internal/model"
	"github.com/quotewatch/isin-data/internal/version"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.Sessions()

	available := 0
	for _, sess := range sessions {
		if sess.Available {
			available++
		}
	}

	status := "healthy"
	if len(sessions) > 0 && available == 0 {
		status = "unhealthy"
	} else if available < len(sessions) {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"sessions":   len(sessions),
		"available":  available,
		"ws_clients": s.hub.ClientCount(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.Commit,
		"build_time": version.BuildTime,
	})
}

// sessionView is the wire form of one session.
type sessionView struct {
	ID          string          `json:"id"`
	ISIN        string          `json:"isin"`
	Exchange    string          `json:"exchange,omitempty"`
	MarketState string          `json:"market_state"`
	Interval    string          `json:"interval"`
	Available   bool            `json:"available"`
	LastError   string          `json:"last_error,omitempty"`
	LastCycle   time.Time       `json:"last_cycle"`
	Quote       *model.Snapshot `json:"quote,omitempty"`
}

func (s *Server) sessionView(id uuid.UUID) (sessionView, bool) {
	sess, ok := s.sessions.Session(id)
	if !ok {
		return sessionView{}, false
	}
	v := sessionView{
		ID:          sess.ID.String(),
		ISIN:        sess.Instrument.ISIN,
		Exchange:    sess.Instrument.ExchangeCode,
		MarketState: sess.MarketState.String(),
		Interval:    sess.Interval.String(),
		Available:   sess.Available,
		LastError:   sess.LastError,
		LastCycle:   sess.LastCycle,
	}
	if snap, ok := s.sessions.Latest(id); ok {
		v.Quote = &snap
	}
	return v, true
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.sessions.Sessions()
	views := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		if v, ok := s.sessionView(sess.ID); ok {
			views = append(views, v)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": views})
}

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	v, ok := s.sessionView(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if _, ok := s.sessions.Session(id); !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	snap, ok := s.sessions.Latest(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no snapshot yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type intervalRequest struct {
	Interval string `json:"interval"`
}

func (s *Server) handleSetInterval(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var req intervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	d, err := time.ParseDuration(req.Interval)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid interval: "+err.Error())
		return
	}
	if d < s.cfg.MinInterval || d > s.cfg.MaxInterval {
		writeError(w, http.StatusBadRequest,
			"interval must be between "+s.cfg.MinInterval.String()+" and "+s.cfg.MaxInterval.String())
		return
	}

	if err := s.sessions.SetInterval(id, d); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"interval": d.String()})
}

func (s *Server) isinParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	isin := r.PathValue("isin")
	if !model.ValidISIN(isin) {
		writeError(w, http.StatusBadRequest, "invalid isin")
		return "", false
	}
	return isin, true
}

func (s *Server) handleExchanges(w http.ResponseWriter, r *http.Request) {
	if s.exchanges == nil {
		writeError(w, http.StatusServiceUnavailable, "exchange lookup not configured")
		return
	}
	isin, ok := s.isinParam(w, r)
	if !ok {
		return
	}

	resp, err := s.exchanges.GetExchanges(r.Context(), isin)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"isin":  isin,
		"items": api.RankExchanges(resp.Items),
	})
}

func (s *Server) handleTimeRanges(w http.ResponseWriter, r *http.Request) {
	if s.exchanges == nil {
		writeError(w, http.StatusServiceUnavailable, "exchange lookup not configured")
		return
	}
	isin, ok := s.isinParam(w, r)
	if !ok {
		return
	}

	ranges, err := s.exchanges.GetTimeRanges(r.Context(), isin)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"isin": isin, "items": ranges})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if s.charts == nil {
		writeError(w, http.StatusServiceUnavailable, "chart fetch not configured")
		return
	}
	isin, ok := s.isinParam(w, r)
	if !ok {
		return
	}

	q := api.ChartQuery{
		ISIN:      isin,
		TimeRange: r.URL.Query().Get("range"),
	}
	if q.TimeRange == "" {
		writeError(w, http.StatusBadRequest, "missing range parameter")
		return
	}
	if v := r.URL.Query().Get("exchange_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid exchange_id")
			return
		}
		q.ExchangeID = n
	}
	if v := r.URL.Query().Get("currency_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid currency_id")
			return
		}
		q.CurrencyID = n
	}
	q.OHLC = r.URL.Query().Get("ohlc") == "true"

	res, err := s.charts.Fetch(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"isin":       res.Query.ISIN,
		"range":      res.Query.TimeRange,
		"origin":     res.Origin,
		"updated_at": res.UpdatedAt,
		"data":       res.Payload,
	})
}
