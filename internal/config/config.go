package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Log        LogConfig
	Tracing    TracingConfig
	Scheduling SchedulingConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver selects the backing store: "postgres" or "sqlite".
	// SQLite is intended for local development and CI only.
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s Timezone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
	SampleRate  float64
}

type SchedulingConfig struct {
	// DefaultSlotMins is used when a booking request names no service and no
	// explicit duration. Services carry their own duration in the catalog.
	DefaultSlotMins int
	// ReminderLookahead is the window ahead of "now" in which an appointment
	// is flagged as due soon.
	ReminderLookahead time.Duration
	// WeekStart is the first column of the month calendar grid, 0=Sunday ... 6=Saturday.
	WeekStart int
}

func (c SchedulingConfig) DefaultSlotDuration() time.Duration {
	return time.Duration(c.DefaultSlotMins) * time.Minute
}

func (c SchedulingConfig) WeekStartDay() time.Weekday {
	return time.Weekday(c.WeekStart)
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "petflow-api"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "0.0.0"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "petflow"),
			User:            getEnv("DB_USER", "petflow"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "require"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "petflow.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  getEnvDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTokenTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			Issuer:          getEnv("JWT_ISSUER", "petflow-api"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", true),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "petflow-api"),
			Endpoint:    getEnv("OTLP_ENDPOINT", "jaeger-collector:4318"),
			SampleRate:  getEnvFloat("TRACING_SAMPLE_RATE", 0.1),
		},
		Scheduling: SchedulingConfig{
			DefaultSlotMins:   getEnvInt("SCHEDULING_DEFAULT_SLOT_MINS", 20),
			ReminderLookahead: getEnvDuration("SCHEDULING_REMINDER_LOOKAHEAD", 60*time.Minute),
			WeekStart:         getEnvInt("SCHEDULING_WEEK_START", 1),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces production security requirements.
func validate(cfg *Config) error {
	var errs []string

	if cfg.JWT.Secret == "" {
		errs = append(errs, "JWT_SECRET is required")
	} else if len(cfg.JWT.Secret) < 32 && cfg.App.Environment == "production" {
		errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Password == "" && cfg.App.Environment != "development" {
			errs = append(errs, "DB_PASSWORD is required in non-development environments")
		}
		if cfg.Database.SSLMode == "disable" && cfg.App.Environment == "production" {
			errs = append(errs, "DB_SSLMODE=disable is not allowed in production")
		}
	case "sqlite":
		if cfg.App.Environment == "production" {
			errs = append(errs, "DB_DRIVER=sqlite is not allowed in production")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown DB_DRIVER %q", cfg.Database.Driver))
	}

	if cfg.Scheduling.DefaultSlotMins <= 0 {
		errs = append(errs, "SCHEDULING_DEFAULT_SLOT_MINS must be positive")
	}
	if cfg.Scheduling.WeekStart < 0 || cfg.Scheduling.WeekStart > 6 {
		errs = append(errs, "SCHEDULING_WEEK_START must be between 0 (Sunday) and 6 (Saturday)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
