package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero disables the timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "studyweb/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LookupConfig holds settings for the encyclopedia lookup.
type LookupConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Endpoint is the action API URL (default https://en.wikipedia.org/w/api.php).
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
}

// CacheBackend selects the page cache implementation.
type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheSQLite CacheBackend = "sqlite"
)

// CacheConfig holds settings for the optional page cache.
type CacheConfig struct {
	// Backend selects none, memory, or sqlite (default none).
	Backend CacheBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// TTL is how long a cached page stays valid (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`

	// Path is the SQLite database file for the sqlite backend.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ServeConfig holds settings for the HTTP server.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowOrigins lists CORS origins; "*" allows any origin.
	AllowOrigins []string `json:"allow_origins" yaml:"allow_origins" mapstructure:"allow_origins"`
}

// ViewConfig holds settings for the interactive view.
type ViewConfig struct {
	// GuardStale drops results from submissions superseded by a later one.
	GuardStale bool `json:"guard_stale" yaml:"guard_stale" mapstructure:"guard_stale"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a logrus level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "text" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Lookup LookupConfig `json:"lookup" yaml:"lookup" mapstructure:"lookup"`
	Cache  CacheConfig  `json:"cache" yaml:"cache" mapstructure:"cache"`
	Serve  ServeConfig  `json:"serve" yaml:"serve" mapstructure:"serve"`
	View   ViewConfig   `json:"view" yaml:"view" mapstructure:"view"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
