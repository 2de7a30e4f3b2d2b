package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL        = "https://component-api.wertpapiere.ing.de"
	DefaultAPITimeout     = 20 * time.Second
	DefaultUpdateInterval = 60 * time.Second
	DefaultCycleTimeout   = 45 * time.Second
	DefaultOpenInterval   = time.Minute
	DefaultClosedInterval = 30 * time.Minute
	DefaultServerPort     = 8080
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 10
	DefaultMinConns       = 2
	DefaultBatchSize      = 100
	DefaultFlushInterval  = 5 * time.Second
	DefaultBufferSize     = 1000
	DefaultCacheDir       = "./data"
)

// Bounds for the user-configurable base poll interval.
const (
	MinUpdateInterval = 15 * time.Second
	MaxUpdateInterval = 3600 * time.Second
)

func (c *WatcherConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Instrument defaults
	for i := range c.Instruments {
		if c.Instruments[i].UpdateInterval == 0 {
			c.Instruments[i].UpdateInterval = DefaultUpdateInterval
		}
	}

	// Poller defaults
	if c.Poller.CycleTimeout == 0 {
		c.Poller.CycleTimeout = DefaultCycleTimeout
	}
	if c.Poller.OpenInterval == 0 {
		c.Poller.OpenInterval = DefaultOpenInterval
	}
	if c.Poller.ClosedInterval == 0 {
		c.Poller.ClosedInterval = DefaultClosedInterval
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}

	// History defaults
	if c.History.BatchSize == 0 {
		c.History.BatchSize = DefaultBatchSize
	}
	if c.History.FlushInterval == 0 {
		c.History.FlushInterval = DefaultFlushInterval
	}
	if c.History.BufferSize == 0 {
		c.History.BufferSize = DefaultBufferSize
	}
	applyDBDefaults(&c.History.Database)

	// Cache defaults
	if c.Cache.Dir == "" {
		c.Cache.Dir = DefaultCacheDir
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
