package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds settings read from the environment. Command-line flags take
// precedence over every field.
type Config struct {
	// Days is kept as text so a bad value is reported by the period parser.
	Days        string        `env:"CHATSPLIT_DAYS"`
	LogLevel    string        `env:"CHATSPLIT_LOG_LEVEL" envDefault:"info"`
	LogDir      string        `env:"CHATSPLIT_LOG_DIR" envDefault:"logs"`
	MetricsFile string        `env:"CHATSPLIT_METRICS_FILE"`
	UTCOffset   time.Duration `env:"CHATSPLIT_UTC_OFFSET" envDefault:"5h"`
}

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
