package config

import (
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port                   string `env:"PORT" envDefault:"8080"`
	DBUser                 string `env:"DB_USER,required"`
	DBPassword             string `env:"DB_PASSWORD,required"`
	DBHost                 string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME,required"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	StorageBucket string `env:"STORAGE_BUCKET"`

	MaxTagsPerListing          int `env:"MAX_TAGS_PER_LISTING" envDefault:"13"`
	ReviewWindowDays           int `env:"REVIEW_WINDOW_DAYS" envDefault:"60"`
	DeliveredFallbackGraceDays int `env:"DELIVERED_FALLBACK_GRACE_DAYS" envDefault:"7"`
	DownloadExpiryDays         int `env:"DOWNLOAD_EXPIRY_DAYS" envDefault:"30"` // 0 disables expiry
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Rules maps the env-tunable limits onto the rule engine defaults.
func (c *Config) Rules() rules.Config {
	rc := rules.DefaultConfig()
	if c.MaxTagsPerListing > 0 {
		rc.MaxTagsPerListing = c.MaxTagsPerListing
	}
	if c.ReviewWindowDays > 0 {
		rc.ReviewWindowDays = c.ReviewWindowDays
	}
	if c.DeliveredFallbackGraceDays > 0 {
		rc.DeliveredFallbackGraceDays = c.DeliveredFallbackGraceDays
	}
	rc.DownloadExpiryDays = c.DownloadExpiryDays
	return rc
}
