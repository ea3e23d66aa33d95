package cache

import "fmt"

// Backend names accepted by Config.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Config selects and parameterizes a cache provider backend.
type Config struct {
	Backend string       `json:"backend,omitempty"`
	Redis   RedisConfig  `json:"redis,omitempty"`
	Badger  BadgerConfig `json:"badger,omitempty"`
}

// DefaultConfig returns the default cache configuration (in-memory backend).
func DefaultConfig() Config {
	return Config{Backend: BackendMemory}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Redis.Addr != "" {
		c.Redis.Addr = source.Redis.Addr
	}
	if source.Redis.Password != "" {
		c.Redis.Password = source.Redis.Password
	}
	if source.Redis.DB != 0 {
		c.Redis.DB = source.Redis.DB
	}
	if source.Badger.Path != "" {
		c.Badger.Path = source.Badger.Path
	}
	if source.Badger.InMemory {
		c.Badger.InMemory = true
	}
}

// New creates a Provider from configuration.
func New(cfg *Config) (Provider, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryProvider(), nil
	case BackendRedis:
		return NewRedisProvider(cfg.Redis), nil
	case BackendBadger:
		return NewBadgerProvider(cfg.Badger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
