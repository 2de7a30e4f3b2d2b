package api

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quotewatch/isin-data/internal/model"
)

var errInvalidJSON = errors.New("body is not valid JSON")

// ToSnapshot converts an instrument header response to a model snapshot.
// requestedISIN fills in for headers that omit their own ISIN field.
func (h *InstrumentHeaderResponse) ToSnapshot(requestedISIN string) model.Snapshot {
	isin := h.ISIN
	if isin == "" {
		isin = requestedISIN
	}

	return model.Snapshot{
		ISIN:           isin,
		Name:           h.Name,
		Price:          h.Price,
		ChangePercent:  h.ChangePercent,
		ChangeAbsolute: h.ChangeAbsolute,
		CurrencySign:   h.CurrencySign,
		ExchangeCode:   h.ExchangeCode,
		ExchangeName:   h.ExchangeName,
		PriceChangedAt: ParsePriceTime(h.PriceChangeDate),
		Meta:           h.AdditionalMetaInformation,
		FetchedAt:      time.Now().UTC(),
	}
}

// ParsePriceTime parses the upstream's priceChangeDate field, which is
// observed as epoch seconds, epoch milliseconds, RFC 3339, or a bare ISO
// string without zone. Returns the zero time when nothing parses.
func ParsePriceTime(raw json.RawMessage) time.Time {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return time.Time{}
	}

	// Numeric epoch, seconds or milliseconds.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f > 1e11 {
			f /= 1000
		}
		sec := int64(f)
		nsec := int64((f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC()
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, str); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02T15:04:05", str); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// RankExchanges orders listings the way the setup flow presents them:
// default listing first, then realtime listings, then the rest; ties are
// broken by sort order, then exchange code.
func RankExchanges(items []ExchangeItem) []ExchangeItem {
	ranked := make([]ExchangeItem, len(items))
	copy(ranked, items)

	rank := func(e ExchangeItem) int {
		switch {
		case e.IsDefault:
			return 0
		case e.IsRealtime:
			return 1
		default:
			return 2
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		ri, rj := rank(ranked[i]), rank(ranked[j])
		if ri != rj {
			return ri < rj
		}
		if ranked[i].sortOrder() != ranked[j].sortOrder() {
			return ranked[i].sortOrder() < ranked[j].sortOrder()
		}
		return ranked[i].ExchangeCode < ranked[j].ExchangeCode
	})

	return ranked
}
