package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	AuthModeFirebase = "firebase"
	AuthModeLocal    = "local"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	FirebaseProjectID   string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentials string `env:"FIREBASE_CREDENTIALS"`
	StorageBucket       string `env:"FIREBASE_STORAGE_BUCKET"`

	// Pub/Sub subscription carrying inbound push messages. Empty disables the consumer.
	PushSubscription string `env:"PUSH_SUBSCRIPTION"`
	// Topic used to create the subscription when it does not exist yet.
	PushTopic string `env:"PUSH_TOPIC"`
	// Notifications kept per user in the in-memory feed.
	FeedCapacity int `env:"NOTIFICATION_FEED_CAPACITY" envDefault:"100"`

	AuthMode        string        `env:"AUTH_MODE" envDefault:"firebase"`
	LocalAuthSecret string        `env:"LOCAL_AUTH_SECRET"`
	LocalAuthTTL    time.Duration `env:"LOCAL_AUTH_TTL" envDefault:"1h"`

	MaxImageBytes int64 `env:"MAX_IMAGE_BYTES" envDefault:"10485760"`

	// App instances not used for this long are released. Zero disables eviction.
	InstanceIdleTTL time.Duration `env:"INSTANCE_IDLE_TTL" envDefault:"30m"`

	// Low-memory watcher: release app instances when available memory drops below this percentage.
	LowMemoryPercent    float64       `env:"LOW_MEMORY_PERCENT" envDefault:"10"`
	MemoryCheckInterval time.Duration `env:"MEMORY_CHECK_INTERVAL" envDefault:"30s"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeFirebase:
	case AuthModeLocal:
		if c.LocalAuthSecret == "" {
			return fmt.Errorf("LOCAL_AUTH_SECRET is required when AUTH_MODE=%s", AuthModeLocal)
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	if c.LowMemoryPercent < 0 || c.LowMemoryPercent > 100 {
		return fmt.Errorf("LOW_MEMORY_PERCENT must be between 0 and 100")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}
