package model

import "time"

// ISINLength is the fixed length of an International Securities
// Identification Number.
const ISINLength = 12

// Instrument describes one configured polling target. It is immutable for
// the lifetime of a session; only the update interval may be replaced via
// an explicit configuration change.
type Instrument struct {
	ISIN         string        // Primary identifier (e.g., "US0378331005")
	ExchangeCode string        // Optional exchange qualifier; "" = default listing
	ExchangeName string        // Display name of the selected exchange
	CurrencySign string        // Currency selected at setup time
	CurrencyName string        // Display name of the selected currency
	Interval     time.Duration // User-configured base poll interval
}

// Key returns a stable identifier for the instrument, unique per
// (ISIN, exchange) pair.
func (i Instrument) Key() string {
	ex := i.ExchangeCode
	if ex == "" {
		ex = "default"
	}
	return i.ISIN + "__" + ex
}

// Snapshot is the latest fetched instrument data. Snapshots are replaced
// wholesale after a successful fetch and never mutated in place; a stale
// snapshot retained across failed or skipped cycles is a valid state.
type Snapshot struct {
	ISIN           string    `json:"isin"`
	Name           string    `json:"name"`  // Human-readable instrument name
	Price          *float64  `json:"price"` // nil if the upstream reported no usable price
	ChangePercent  *float64  `json:"change_percent,omitempty"`
	ChangeAbsolute *float64  `json:"change_absolute,omitempty"`
	CurrencySign   string    `json:"currency_sign,omitempty"`
	ExchangeCode   string    `json:"exchange_code,omitempty"`
	ExchangeName   string    `json:"exchange_name,omitempty"`
	PriceChangedAt time.Time `json:"price_changed_at,omitzero"` // Zero if the upstream reported no timestamp
	Meta           []string  `json:"meta,omitempty"` // Free-text classification tags; Meta[0] drives asset class
	FetchedAt      time.Time `json:"fetched_at"`
}

// HasPrice reports whether the snapshot carries a usable price. A response
// without one triggers the fallback fetch against the default listing.
func (s Snapshot) HasPrice() bool {
	return s.Price != nil
}

// ValidISIN reports whether s is a structurally valid ISIN: exactly 12
// alphanumeric characters. It does not verify the check digit.
func ValidISIN(s string) bool {
	if len(s) != ISINLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
