package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	PolicyAlwaysOpen = "always_open"
	PolicyNeverOpen  = "never_open"
)

// Config holds all runtime settings. Values come from the environment (optionally
// seeded from a .env file) with a config.yaml fallback.
type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	JWTAccessTTL time.Duration `mapstructure:"JWT_ACCESS_TTL"`

	CancellationCutoff      time.Duration `mapstructure:"CANCELLATION_CUTOFF"`
	InstantConfirm          bool          `mapstructure:"BOOKING_INSTANT_CONFIRM"`
	EmptyAvailabilityPolicy string        `mapstructure:"EMPTY_AVAILABILITY_POLICY"`
	ScheduleTimezone        string        `mapstructure:"SCHEDULE_TIMEZONE"`

	// Redis is optional; without it charger locks are held in-process.
	RedisURL string        `mapstructure:"REDIS_URL"`
	LockTTL  time.Duration `mapstructure:"LOCK_TTL"`

	SweepInterval time.Duration `mapstructure:"SWEEP_INTERVAL"`
	SweepOnce     bool          `mapstructure:"SWEEP_ONCE"`

	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// InternalToken guards the payment collaborator's callbacks; empty disables them.
	InternalToken      string `mapstructure:"INTERNAL_TOKEN"`
	InternalAllowedIPs string `mapstructure:"INTERNAL_ALLOWED_IPS"`
}

func Load() (*Config, error) {
	// .env is a local convenience; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.EmptyAvailabilityPolicy = strings.ToLower(strings.TrimSpace(cfg.EmptyAvailabilityPolicy))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DATABASE_URL", "chargeshare.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("CANCELLATION_CUTOFF", "2h")
	v.SetDefault("BOOKING_INSTANT_CONFIRM", false)
	v.SetDefault("EMPTY_AVAILABILITY_POLICY", PolicyAlwaysOpen)
	v.SetDefault("SCHEDULE_TIMEZONE", "UTC")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOCK_TTL", "10s")
	v.SetDefault("SWEEP_INTERVAL", "1m")
	v.SetDefault("SWEEP_ONCE", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("INTERNAL_TOKEN", "")
	v.SetDefault("INTERNAL_ALLOWED_IPS", "")
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.CancellationCutoff < 0 {
		return fmt.Errorf("CANCELLATION_CUTOFF must be >= 0")
	}
	if cfg.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be > 0")
	}
	if cfg.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if cfg.EmptyAvailabilityPolicy != PolicyAlwaysOpen && cfg.EmptyAvailabilityPolicy != PolicyNeverOpen {
		return fmt.Errorf("EMPTY_AVAILABILITY_POLICY must be one of: %s, %s", PolicyAlwaysOpen, PolicyNeverOpen)
	}
	if _, err := time.LoadLocation(cfg.ScheduleTimezone); err != nil {
		return fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", cfg.ScheduleTimezone, err)
	}

	if IsProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

// Location resolves ScheduleTimezone. validateConfig has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ScheduleTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

func (c *Config) InternalIPs() []string {
	return splitList(c.InternalAllowedIPs)
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
