package api

import "encoding/json"

// InstrumentHeaderResponse from GET /instrumentheader/{isin}
type InstrumentHeaderResponse struct {
	ISIN           string   `json:"isin"`
	Name           string   `json:"name"`
	Price          *float64 `json:"price"`
	ChangePercent  *float64 `json:"changePercent"`
	ChangeAbsolute *float64 `json:"changeAbsolute"`
	CurrencySign   string   `json:"currencySign"`
	ExchangeCode   string   `json:"exchangeCode"`
	ExchangeName   string   `json:"exchangeName"`

	// Observed as epoch seconds, epoch milliseconds or an ISO string
	// depending on the listing; parsed leniently.
	PriceChangeDate json.RawMessage `json:"priceChangeDate"`

	// Free-text classification tags; the first one names the asset class.
	AdditionalMetaInformation []string `json:"additionalMetaInformation"`
}

// ExchangesResponse from GET /exchanges/{isin}
type ExchangesResponse struct {
	Items []ExchangeItem `json:"items"`
}

// ExchangeItem is one listing of an instrument on a specific exchange.
type ExchangeItem struct {
	ExchangeCode    string `json:"exchangeCode"`
	ExchangeName    string `json:"exchangeName"`
	ExchangeID      int    `json:"exchangeId"`
	CurrencySign    string `json:"currencySign"`
	CurrencyIsoCode string `json:"currencyIsoCode"`
	CurrencyName    string `json:"currencyName"`
	CurrencyID      int    `json:"currencyId"`
	IsDefault       bool   `json:"isDefault"`
	IsRealtime      bool   `json:"isRealtime"`

	// Listings without a sortOrder rank last, not first.
	SortOrder *int `json:"sortOrder"`
}

func (e ExchangeItem) sortOrder() int {
	if e.SortOrder == nil {
		return 9999
	}
	return *e.SortOrder
}

// Currency returns the listing's currency identifier, preferring the sign
// over the ISO code.
func (e ExchangeItem) Currency() string {
	if e.CurrencySign != "" {
		return e.CurrencySign
	}
	return e.CurrencyIsoCode
}

// TimeRangesResponse from GET /charts/metadata/{isin}
type TimeRangesResponse struct {
	Items []string `json:"items"`
}

// ChartQuery identifies one chart series request.
type ChartQuery struct {
	ISIN       string
	TimeRange  string // e.g. "Intraday", "OneWeek", "OneYear"
	ExchangeID int
	CurrencyID int
	OHLC       bool
}
