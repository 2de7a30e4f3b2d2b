package config

import "time"

// WatcherConfig is the root configuration for a watcher instance.
type WatcherConfig struct {
	Instance    InstanceConfig     `yaml:"instance"`
	API         APIConfig          `yaml:"api"`
	Instruments []InstrumentConfig `yaml:"instruments"`
	Poller      PollerConfig       `yaml:"poller"`
	Server      ServerConfig       `yaml:"server"`
	History     HistoryConfig      `yaml:"history"`
	Cache       CacheConfig        `yaml:"cache"`
}

// InstanceConfig identifies this watcher.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds upstream API settings.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// InstrumentConfig describes one instrument to poll. ExchangeCode and
// CurrencySign are optional; an empty exchange code means the default
// listing and disables market-hour throttling.
type InstrumentConfig struct {
	ISIN           string        `yaml:"isin"`
	ExchangeCode   string        `yaml:"exchange_code"`
	ExchangeName   string        `yaml:"exchange_name"`
	CurrencySign   string        `yaml:"currency_sign"`
	CurrencyName   string        `yaml:"currency_name"`
	UpdateInterval time.Duration `yaml:"update_interval"`
}

// PollerConfig holds scheduling driver settings.
type PollerConfig struct {
	CycleTimeout   time.Duration `yaml:"cycle_timeout"`   // Per-cycle fetch budget
	OpenInterval   time.Duration `yaml:"open_interval"`   // Fast interval while market open
	ClosedInterval time.Duration `yaml:"closed_interval"` // Slow interval while market closed
}

// ServerConfig holds the HTTP/WebSocket surface settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// HistoryConfig holds the optional Postgres quote-history persistence.
type HistoryConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Database      DBConfig      `yaml:"database"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CacheConfig holds the on-disk artifact caches (chart history, logos).
type CacheConfig struct {
	Dir string `yaml:"dir"`
}
