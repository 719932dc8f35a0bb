package redis

import "time"

// Config controls the client used by the override read cache. Load it
// through pkg/config.
type Config struct {
	// URL is the redis connection string, e.g.
	// "redis://:password@localhost:6379/0".
	URL string `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`

	// ConnectAttempts and ConnectBackoff bound the startup retry loop;
	// ConnectTimeout caps the whole loop.
	ConnectAttempts int           `env:"REDIS_CONNECT_ATTEMPTS" envDefault:"3"`
	ConnectBackoff  time.Duration `env:"REDIS_CONNECT_BACKOFF" envDefault:"5s"`
	ConnectTimeout  time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
