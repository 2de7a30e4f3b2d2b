package history

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotewatch/isin-data/internal/api"
)

type fakeChartSource struct {
	payload json.RawMessage
	err     error
	calls   []api.ChartQuery
}

func (f *fakeChartSource) GetChartData(_ context.Context, q api.ChartQuery) (json.RawMessage, error) {
	f.calls = append(f.calls, q)
	return f.payload, f.err
}

func query() api.ChartQuery {
	return api.ChartQuery{
		ISIN:       "DE0008469008",
		TimeRange:  "OneWeek",
		ExchangeID: 2779,
		CurrencyID: 814,
		OHLC:       true,
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "DE0008469008__2779_814__OneWeek__ohlc.json", Filename(query()))

	q := query()
	q.OHLC = false
	assert.Equal(t, "DE0008469008__2779_814__OneWeek__line.json", Filename(q))
}

func TestFetchLiveWritesThrough(t *testing.T) {
	dir := t.TempDir()
	src := &fakeChartSource{payload: json.RawMessage(`{"instruments": []}`)}
	c := NewCache(dir, src, nil)

	res, err := c.Fetch(context.Background(), query())
	require.NoError(t, err)
	assert.Equal(t, OriginLive, res.Origin)
	assert.JSONEq(t, `{"instruments": []}`, string(res.Payload))

	data, err := os.ReadFile(filepath.Join(dir, Filename(query())))
	require.NoError(t, err)
	assert.JSONEq(t, `{"instruments": []}`, string(data))
}

func TestFetchFailureServesCache(t *testing.T) {
	dir := t.TempDir()

	src := &fakeChartSource{payload: json.RawMessage(`{"instruments": [1]}`)}
	c := NewCache(dir, src, nil)
	_, err := c.Fetch(context.Background(), query())
	require.NoError(t, err)

	// Upstream goes down; the cached payload answers.
	src.err = errors.New("HTTP 502")
	res, err := c.Fetch(context.Background(), query())
	require.NoError(t, err)
	assert.Equal(t, OriginCache, res.Origin)
	assert.JSONEq(t, `{"instruments": [1]}`, string(res.Payload))
}

func TestFetchFailureWithoutCachePropagates(t *testing.T) {
	src := &fakeChartSource{err: errors.New("HTTP 502")}
	c := NewCache(t.TempDir(), src, nil)

	_, err := c.Fetch(context.Background(), query())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchIntradayNeverOHLC(t *testing.T) {
	src := &fakeChartSource{payload: json.RawMessage(`[]`)}
	c := NewCache(t.TempDir(), src, nil)

	q := query()
	q.TimeRange = "Intraday"
	q.OHLC = true

	res, err := c.Fetch(context.Background(), q)
	require.NoError(t, err)

	require.Len(t, src.calls, 1)
	assert.False(t, src.calls[0].OHLC, "Intraday request must drop the OHLC flag")
	assert.Contains(t, res.File, "__Intraday__line.json")
}

func TestCached(t *testing.T) {
	dir := t.TempDir()
	src := &fakeChartSource{payload: json.RawMessage(`{"a": 1}`)}
	c := NewCache(dir, src, nil)

	_, ok := c.Cached(query())
	assert.False(t, ok, "no cache before first fetch")

	_, err := c.Fetch(context.Background(), query())
	require.NoError(t, err)

	payload, ok := c.Cached(query())
	require.True(t, ok)
	assert.JSONEq(t, `{"a": 1}`, string(payload))
}

func TestCachedRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, &fakeChartSource{}, nil)

	file := filepath.Join(dir, Filename(query()))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(file, []byte("not json"), 0o644))

	_, ok := c.Cached(query())
	assert.False(t, ok)
}
