package model

import "strings"

// assetClasses maps the upstream's localized classification tags to the
// canonical names the logo endpoint expects. Unmapped tags pass through
// unchanged.
var assetClasses = map[string]string{
	"Devisenkurs":  "ExchangeRate",
	"ETF":          "Fund",
	"Fonds":        "Fund",
	"Rohstoff":     "Commodity",
	"Aktie":        "Share",
	"Anleihe":      "Bond",
	"Zertifikate":  "Derivative",
	"Hebelprodukt": "Derivative",
}

// AssetClass derives the canonical asset class from the snapshot's first
// metadata tag. Returns "" when no tags are present.
func (s Snapshot) AssetClass() string {
	if len(s.Meta) == 0 {
		return ""
	}
	raw := strings.TrimSpace(s.Meta[0])
	if raw == "" {
		return ""
	}
	if en, ok := assetClasses[raw]; ok {
		return en
	}
	return raw
}

// IsBond reports whether the instrument is a bond. Bonds quote in
// percentage points rather than a currency, so both the currency sign and
// the first metadata tag are checked.
func (s Snapshot) IsBond() bool {
	if strings.TrimSpace(s.CurrencySign) == "%" {
		return true
	}
	if len(s.Meta) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(s.Meta[0]), "anleihe")
}
