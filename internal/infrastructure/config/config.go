package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Production API location used when PORTAL_API_URL is unset.
const productionBaseURL = "https://college-website-iota-jet.vercel.app/api"

// Config holds the portal client's runtime settings.
type Config struct {
	Env         string        `env:"ENV,                 default=development"`
	APIBaseURL  string        `env:"PORTAL_API_URL"`
	LogLevel    string        `env:"LOG_LEVEL,           default=info"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT,        default=15s"`
	StateFile   string        `env:"PORTAL_STATE_FILE"`
}

// Load reads client configuration from environment variables using
// go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// BaseURL resolves the API root: the explicit override wins, otherwise an
// environment-specific default.
func (c *Config) BaseURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimRight(c.APIBaseURL, "/")
	}
	if c.Env == "production" {
		return productionBaseURL
	}
	return "http://localhost:5000/api"
}

// StubConfig holds the dev stub server's settings. Mongo and Redis are
// optional: with empty addresses the stub runs fully in memory.
type StubConfig struct {
	Port      string `env:"PORT,       default=5000"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET, default=dev-only-secret"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=campus_portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// LoadStub reads dev stub configuration from environment variables.
func LoadStub() *StubConfig {
	var cfg StubConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load stub configuration: %v", err))
	}
	return &cfg
}

// DevMode reports whether the stub should expose devOtp values in responses.
func (c *StubConfig) DevMode() bool {
	return c.Env != "production"
}
