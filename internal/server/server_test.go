package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotewatch/isin-data/internal/api"
	"github.com/quotewatch/isin-data/internal/calendar"
	"github.com/quotewatch/isin-data/internal/history"
	"github.com/quotewatch/isin-data/internal/model"
	"github.com/quotewatch/isin-data/internal/poller"
)

type fakeDirectory struct {
	sessions  map[uuid.UUID]poller.Session
	snapshots map[uuid.UUID]model.Snapshot
	intervals map[uuid.UUID]time.Duration
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		sessions:  make(map[uuid.UUID]poller.Session),
		snapshots: make(map[uuid.UUID]model.Snapshot),
		intervals: make(map[uuid.UUID]time.Duration),
	}
}

func (d *fakeDirectory) add(s poller.Session, snap *model.Snapshot) {
	d.sessions[s.ID] = s
	if snap != nil {
		d.snapshots[s.ID] = *snap
	}
}

func (d *fakeDirectory) Sessions() []poller.Session {
	out := make([]poller.Session, 0, len(d.sessions))
	for _, s := range d.sessions {
		out = append(out, s)
	}
	return out
}

func (d *fakeDirectory) Session(id uuid.UUID) (poller.Session, bool) {
	s, ok := d.sessions[id]
	return s, ok
}

func (d *fakeDirectory) Latest(id uuid.UUID) (model.Snapshot, bool) {
	s, ok := d.snapshots[id]
	return s, ok
}

func (d *fakeDirectory) SetInterval(id uuid.UUID, dur time.Duration) error {
	if _, ok := d.sessions[id]; !ok {
		return errors.New("unknown session")
	}
	d.intervals[id] = dur
	return nil
}

type fakeExchangeSource struct {
	exchanges *api.ExchangesResponse
	ranges    []string
	err       error
}

func (f *fakeExchangeSource) GetExchanges(_ context.Context, _ string) (*api.ExchangesResponse, error) {
	return f.exchanges, f.err
}

func (f *fakeExchangeSource) GetTimeRanges(_ context.Context, _ string) ([]string, error) {
	return f.ranges, f.err
}

type fakeChartProvider struct {
	result *history.Result
	err    error
	got    api.ChartQuery
}

func (f *fakeChartProvider) Fetch(_ context.Context, q api.ChartQuery) (*history.Result, error) {
	f.got = q
	return f.result, f.err
}

func testSession(available bool) poller.Session {
	return poller.Session{
		ID: uuid.New(),
		Instrument: model.Instrument{
			ISIN:         "US0378331005",
			ExchangeCode: "TGT",
			Interval:     time.Minute,
		},
		MarketState: calendar.StateOpen,
		Interval:    time.Minute,
		Available:   available,
		LastCycle:   time.Now(),
	}
}

func newTestServer(t *testing.T, dir SessionDirectory, ex ExchangeSource, ch ChartProvider) *httptest.Server {
	t.Helper()
	s := New(Config{
		MinInterval: 15 * time.Second,
		MaxInterval: time.Hour,
	}, dir, ex, ch, nil)
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	return resp.StatusCode
}

func TestHandleHealth(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(testSession(true), nil)
	dir.add(testSession(false), nil)

	ts := newTestServer(t, dir, nil, nil)

	var body map[string]any
	code := getJSON(t, ts.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body["status"])
	assert.EqualValues(t, 2, body["sessions"])
	assert.EqualValues(t, 1, body["available"])
}

func TestHandleHealthAllDown(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(testSession(false), nil)

	ts := newTestServer(t, dir, nil, nil)

	var body map[string]any
	code := getJSON(t, ts.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestHandleVersion(t *testing.T) {
	ts := newTestServer(t, newFakeDirectory(), nil, nil)

	var body map[string]string
	code := getJSON(t, ts.URL+"/version", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, body["version"])
}

func TestHandleSessionAndQuote(t *testing.T) {
	dir := newFakeDirectory()
	sess := testSession(true)
	price := 187.3
	snap := model.Snapshot{
		ISIN:      "US0378331005",
		Name:      "Apple Inc.",
		Price:     &price,
		FetchedAt: time.Now(),
	}
	dir.add(sess, &snap)

	ts := newTestServer(t, dir, nil, nil)

	var v sessionView
	code := getJSON(t, ts.URL+"/v1/sessions/"+sess.ID.String(), &v)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "US0378331005", v.ISIN)
	assert.Equal(t, "open", v.MarketState)
	require.NotNil(t, v.Quote)
	assert.Equal(t, "Apple Inc.", v.Quote.Name)

	var got model.Snapshot
	code = getJSON(t, ts.URL+"/v1/sessions/"+sess.ID.String()+"/quote", &got)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, got.Price)
	assert.Equal(t, 187.3, *got.Price)
}

func TestHandleSessionNotFound(t *testing.T) {
	ts := newTestServer(t, newFakeDirectory(), nil, nil)

	var body errorResponse
	code := getJSON(t, ts.URL+"/v1/sessions/"+uuid.NewString(), &body)
	assert.Equal(t, http.StatusNotFound, code)

	code = getJSON(t, ts.URL+"/v1/sessions/not-a-uuid", &body)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandleSetInterval(t *testing.T) {
	dir := newFakeDirectory()
	sess := testSession(true)
	dir.add(sess, nil)

	ts := newTestServer(t, dir, nil, nil)
	url := ts.URL + "/v1/sessions/" + sess.ID.String() + "/interval"

	put := func(body string) int {
		req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, put(`{"interval": "2m"}`))
	assert.Equal(t, 2*time.Minute, dir.intervals[sess.ID])

	assert.Equal(t, http.StatusBadRequest, put(`{"interval": "5s"}`), "below lower bound")
	assert.Equal(t, http.StatusBadRequest, put(`{"interval": "2h"}`), "above upper bound")
	assert.Equal(t, http.StatusBadRequest, put(`{"interval": "soon"}`))
}

func TestHandleExchanges(t *testing.T) {
	def := 1
	ex := &fakeExchangeSource{
		exchanges: &api.ExchangesResponse{
			Items: []api.ExchangeItem{
				{ExchangeCode: "FRA", SortOrder: &def},
				{ExchangeCode: "TGT", IsDefault: true},
			},
		},
	}
	ts := newTestServer(t, newFakeDirectory(), ex, nil)

	var body struct {
		ISIN  string             `json:"isin"`
		Items []api.ExchangeItem `json:"items"`
	}
	code := getJSON(t, ts.URL+"/v1/instruments/US0378331005/exchanges", &body)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "TGT", body.Items[0].ExchangeCode, "default listing ranks first")
}

func TestHandleExchangesInvalidISIN(t *testing.T) {
	ts := newTestServer(t, newFakeDirectory(), &fakeExchangeSource{}, nil)

	var body errorResponse
	code := getJSON(t, ts.URL+"/v1/instruments/US037/exchanges", &body)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandleExchangesUnconfigured(t *testing.T) {
	ts := newTestServer(t, newFakeDirectory(), nil, nil)

	var body errorResponse
	code := getJSON(t, ts.URL+"/v1/instruments/US0378331005/exchanges", &body)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestHandleChart(t *testing.T) {
	ch := &fakeChartProvider{
		result: &history.Result{
			Query:     api.ChartQuery{ISIN: "US0378331005", TimeRange: "OneYear"},
			Payload:   json.RawMessage(`{"series": []}`),
			Origin:    history.OriginLive,
			UpdatedAt: time.Now(),
		},
	}
	ts := newTestServer(t, newFakeDirectory(), nil, ch)

	var body map[string]any
	code := getJSON(t, ts.URL+"/v1/instruments/US0378331005/chart?range=OneYear&exchange_id=44&ohlc=true", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "live", body["origin"])
	assert.Equal(t, 44, ch.got.ExchangeID)
	assert.True(t, ch.got.OHLC)

	code = getJSON(t, ts.URL+"/v1/instruments/US0378331005/chart", &body)
	assert.Equal(t, http.StatusBadRequest, code, "range is required")
}

func TestHandleChartUpstreamError(t *testing.T) {
	ch := &fakeChartProvider{err: errors.New("chart service down")}
	ts := newTestServer(t, newFakeDirectory(), nil, ch)

	var body errorResponse
	code := getJSON(t, ts.URL+"/v1/instruments/US0378331005/chart?range=Intraday", &body)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, body.Error, "chart service down")
}
