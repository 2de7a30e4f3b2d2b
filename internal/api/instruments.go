package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/quotewatch/isin-data/internal/model"
)

// GetExchanges fetches the listings available for an ISIN.
func (c *Client) GetExchanges(ctx context.Context, isin string) (*ExchangesResponse, error) {
	var resp ExchangesResponse
	if err := c.getJSON(ctx, "/api/v1/components/exchanges/"+url.PathEscape(isin), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetInstrumentHeader fetches the quote snapshot for an ISIN. An empty
// exchangeCode requests the default listing.
func (c *Client) GetInstrumentHeader(ctx context.Context, isin, exchangeCode string) (*InstrumentHeaderResponse, error) {
	var query url.Values
	if exchangeCode != "" {
		query = url.Values{"exchangeCode": {exchangeCode}}
	}

	var resp InstrumentHeaderResponse
	if err := c.getJSON(ctx, "/api/v1/components/instrumentheader/"+url.PathEscape(isin), query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchSnapshot fetches the instrument header and converts it to a model
// snapshot. It satisfies the quote source contract: exactly one upstream
// call, classified errors, no retries.
func (c *Client) FetchSnapshot(ctx context.Context, isin, exchangeCode string) (model.Snapshot, error) {
	header, err := c.GetInstrumentHeader(ctx, isin, exchangeCode)
	if err != nil {
		return model.Snapshot{}, err
	}
	return header.ToSnapshot(isin), nil
}

// GetTimeRanges fetches the chart time ranges available for an ISIN.
func (c *Client) GetTimeRanges(ctx context.Context, isin string) ([]string, error) {
	var resp TimeRangesResponse
	if err := c.getJSON(ctx, "/api/v1/charts/metadata/"+url.PathEscape(isin), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// GetChartData fetches one chart series. The payload is returned as raw
// JSON so callers can persist it verbatim; it is validated but not mapped.
func (c *Client) GetChartData(ctx context.Context, q ChartQuery) (json.RawMessage, error) {
	query := url.Values{
		"timeRange":  {q.TimeRange},
		"exchangeId": {strconv.Itoa(q.ExchangeID)},
		"currencyId": {strconv.Itoa(q.CurrencyID)},
		"ohlc":       {strconv.FormatBool(q.OHLC)},
	}

	path := "/api/v1/charts/data/" + url.PathEscape(q.ISIN)
	body, _, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &ParseError{URL: c.baseURL + path, Err: errInvalidJSON}
	}
	return json.RawMessage(body), nil
}

// GetLogo fetches the instrument logo. The body is returned together with
// the response Content-Type; interpretation of the two supported forms
// (raw SVG, JSON with embedded SVG) is left to the logo cache.
func (c *Client) GetLogo(ctx context.Context, isin, assetClass string) ([]byte, string, error) {
	query := url.Values{"assetClass": {assetClass}}
	return c.doRequest(ctx, "/api/v1/logos/"+url.PathEscape(isin), query)
}
