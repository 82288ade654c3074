// internal/config/config.go
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	Storage struct {
		// "postgres" or "memory"
		Backend string `mapstructure:"backend"`
	} `mapstructure:"storage"`
	Database struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"database"`
	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
	Security struct {
		RequestID struct {
			TrustHeader bool `mapstructure:"trust_header"`
		} `mapstructure:"request_id"`
		RateLimit struct {
			Enabled           bool          `mapstructure:"enabled"`
			RequestsPerMinute int           `mapstructure:"rpm"`
			Burst             int           `mapstructure:"burst"`
			TTL               time.Duration `mapstructure:"ttl"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"security"`
}

func Load() Config {
	viper.SetDefault("server.addr", "127.0.0.1:8080")
	viper.SetDefault("storage.backend", "memory")
	// Sensible logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	// Security defaults
	viper.SetDefault("security.request_id.trust_header", false)
	viper.SetDefault("security.rate_limit.enabled", true)
	viper.SetDefault("security.rate_limit.rpm", 120)
	viper.SetDefault("security.rate_limit.burst", 60)
	viper.SetDefault("security.rate_limit.ttl", "30m")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	_ = viper.ReadInConfig()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// explicit bindings
	_ = viper.BindEnv("server.addr", "SERVER_ADDR")
	_ = viper.BindEnv("storage.backend", "STORAGE_BACKEND")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("logging.level", "LOG_LEVEL")
	_ = viper.BindEnv("logging.format", "LOG_FORMAT")
	_ = viper.BindEnv("cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = viper.BindEnv("security.request_id.trust_header", "REQUEST_ID_TRUST_HEADER")
	_ = viper.BindEnv("security.rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = viper.BindEnv("security.rate_limit.rpm", "RATE_LIMIT_RPM")
	_ = viper.BindEnv("security.rate_limit.burst", "RATE_LIMIT_BURST")
	_ = viper.BindEnv("security.rate_limit.ttl", "RATE_LIMIT_TTL")

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		panic("config error: " + err.Error())
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend != "memory" && c.Storage.Backend != "postgres" {
		panic("config error: storage.backend must be memory or postgres")
	}
	if c.Storage.Backend == "postgres" && c.Database.URL == "" {
		panic("config error: database.url/DATABASE_URL required for postgres backend")
	}
	return c
}
