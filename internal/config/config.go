package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port string

	// Postgres
	DatabaseURL   string
	DBMaxOpen     int
	DBMaxIdle     int
	DBMaxLifetime time.Duration
	DBMigrate     bool

	// Logging
	LogLevel  string
	LogFormat string

	// Write permission; empty means anyone may write
	AccessSecret string

	// Throttling; 0 rps disables it
	RateLimitRPS   float64
	RateLimitBurst int

	// Change events; no brokers means events are dropped
	KafkaBrokers []string
	KafkaTopic   string

	ShutdownTimeout time.Duration
}

var (
	ErrMissingDatabaseURL  = errors.New("DATABASE_URL is required")
	ErrMissingAccessSecret = errors.New("ACCESS_SECRET is required")
)

// TokenConfig is what the token command needs to sign write tokens.
type TokenConfig struct {
	AccessSecret string
	AccessTTL    string
}

// Load reads .env (if any), the environment and an optional config.yaml.
func Load() (*Config, error) {
	return fromViper(read())
}

// LoadToken reads the signing settings from the same sources as Load.
func LoadToken() (*TokenConfig, error) {
	v := read()

	cfg := &TokenConfig{
		AccessSecret: v.GetString("ACCESS_SECRET"),
		AccessTTL:    v.GetString("ACCESS_TTL"),
	}
	if cfg.AccessSecret == "" {
		return nil, ErrMissingAccessSecret
	}

	return cfg, nil
}

func read() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "4000")
	v.SetDefault("DB_MAX_OPEN", 25)
	v.SetDefault("DB_MAX_IDLE", 25)
	v.SetDefault("DB_MAX_LIFETIME", "300s")
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ACCESS_TTL", "15m")
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("KAFKA_TOPIC", "posts")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:            v.GetString("PORT"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DBMaxOpen:       v.GetInt("DB_MAX_OPEN"),
		DBMaxIdle:       v.GetInt("DB_MAX_IDLE"),
		DBMaxLifetime:   parseDuration(v.GetString("DB_MAX_LIFETIME"), 300*time.Second),
		DBMigrate:       v.GetBool("DB_MIGRATE"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		AccessSecret:    v.GetString("ACCESS_SECRET"),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
		KafkaBrokers:    splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:      v.GetString("KAFKA_TOPIC"),
		ShutdownTimeout: parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 5*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("5s", "1m") or a bare number of seconds.
func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if d, err := time.ParseDuration(s + "s"); err == nil {
		return d
	}
	return def
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}
