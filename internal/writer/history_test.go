package writer

import (
	"testing"
	"time"

	"github.com/quotewatch/isin-data/internal/model"
)

func TestHistoryWriter_Transform(t *testing.T) {
	w := NewHistoryWriter(DefaultConfig(), nil, nil)

	price := 18492.49
	pct := -0.35
	abs := -64.25
	fetched := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	changed := time.Date(2024, 6, 12, 9, 59, 30, 0, time.UTC)

	row := w.transform(model.Snapshot{
		ISIN:           "DE0008469008",
		ExchangeCode:   "ETR",
		Price:          &price,
		ChangePercent:  &pct,
		ChangeAbsolute: &abs,
		CurrencySign:   "EUR",
		PriceChangedAt: changed,
		FetchedAt:      fetched,
	})

	if row.ISIN != "DE0008469008" || row.ExchangeCode != "ETR" {
		t.Errorf("identity fields = %s/%s", row.ISIN, row.ExchangeCode)
	}
	if row.Price == nil || *row.Price != price {
		t.Errorf("Price = %v", row.Price)
	}
	if !row.FetchedAt.Equal(fetched) {
		t.Errorf("FetchedAt = %v", row.FetchedAt)
	}
	if row.PriceChangedAt == nil || !row.PriceChangedAt.Equal(changed) {
		t.Errorf("PriceChangedAt = %v", row.PriceChangedAt)
	}
}

func TestHistoryWriter_TransformNullables(t *testing.T) {
	w := NewHistoryWriter(DefaultConfig(), nil, nil)

	row := w.transform(model.Snapshot{
		ISIN:      "XS1234567890",
		FetchedAt: time.Now(),
	})

	if row.Price != nil {
		t.Error("absent price must map to NULL, not zero")
	}
	if row.PriceChangedAt != nil {
		t.Error("zero timestamp must map to NULL")
	}
}

func TestHistoryWriter_BatchThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatchSize = 3
	w := NewHistoryWriter(cfg, nil, nil)

	// Below the threshold nothing signals a flush.
	if w.appendRow(historyRow{ISIN: "A"}) {
		t.Error("first row should not fill the batch")
	}
	if w.appendRow(historyRow{ISIN: "B"}) {
		t.Error("second row should not fill the batch")
	}
	if !w.appendRow(historyRow{ISIN: "C"}) {
		t.Error("third row should fill the batch")
	}
}

func TestHistoryWriter_EnqueueFeedsQueue(t *testing.T) {
	w := NewHistoryWriter(DefaultConfig(), nil, nil)

	if !w.Enqueue(model.Snapshot{ISIN: "DE0008469008"}) {
		t.Fatal("Enqueue failed")
	}
	if got := w.input.Len(); got != 1 {
		t.Errorf("queue length = %d, want 1", got)
	}

	w.input.Close()
	if w.Enqueue(model.Snapshot{ISIN: "DE0008469008"}) {
		t.Error("Enqueue after close should report false")
	}
}
