package config

import (
	"errors"
	"fmt"

	"github.com/quotewatch/isin-data/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *WatcherConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if len(c.Instruments) == 0 {
		return errors.New("at least one instrument is required")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for i, instr := range c.Instruments {
		if err := instr.validate(fmt.Sprintf("instruments[%d]", i)); err != nil {
			return err
		}
		key := instr.ISIN + "__" + instr.ExchangeCode
		if seen[key] {
			return fmt.Errorf("instruments[%d]: duplicate isin/exchange pair %s/%s", i, instr.ISIN, instr.ExchangeCode)
		}
		seen[key] = true
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.History.Enabled {
		if err := c.History.Database.validate("history.database"); err != nil {
			return err
		}
		if c.History.BatchSize < 1 {
			return errors.New("history.batch_size must be >= 1")
		}
		if c.History.BufferSize < 1 {
			return errors.New("history.buffer_size must be >= 1")
		}
	}

	return nil
}

func (i InstrumentConfig) validate(prefix string) error {
	if !model.ValidISIN(i.ISIN) {
		return fmt.Errorf("%s.isin %q is not a valid 12-character ISIN", prefix, i.ISIN)
	}
	if i.UpdateInterval < MinUpdateInterval || i.UpdateInterval > MaxUpdateInterval {
		return fmt.Errorf("%s.update_interval must be between %s and %s, got %s",
			prefix, MinUpdateInterval, MaxUpdateInterval, i.UpdateInterval)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	return nil
}

// Instrument converts an InstrumentConfig into the model type.
func (i InstrumentConfig) Instrument() model.Instrument {
	return model.Instrument{
		ISIN:         i.ISIN,
		ExchangeCode: i.ExchangeCode,
		ExchangeName: i.ExchangeName,
		CurrencySign: i.CurrencySign,
		CurrencyName: i.CurrencyName,
		Interval:     i.UpdateInterval,
	}
}
