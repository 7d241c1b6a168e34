package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Timeline TimelineConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TimelineConfig carries the default visible day window used when the
// caller does not supply one per request.
type TimelineConfig struct {
	DayStartHour    int
	DayEndHour      int
	IntervalMinutes int
	DayViewCacheTTL time.Duration
}

// ExportsConfig toggles roster sheet downloads and controls the on-disk
// archive of generated sheets.
type ExportsConfig struct {
	Enabled      bool
	ArchiveDir   string
	ArchiveTTL   time.Duration
	DownloadTTL  time.Duration
	QueueWorkers int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Timeline = TimelineConfig{
		DayStartHour:    v.GetInt("TIMELINE_DAY_START_HOUR"),
		DayEndHour:      v.GetInt("TIMELINE_DAY_END_HOUR"),
		IntervalMinutes: v.GetInt("TIMELINE_INTERVAL_MINUTES"),
		DayViewCacheTTL: parseDuration(v.GetString("TIMELINE_DAY_VIEW_CACHE_TTL"), 2*time.Minute),
	}

	cfg.Exports = ExportsConfig{
		Enabled:      v.GetBool("ENABLE_ROSTER_EXPORTS"),
		ArchiveDir:   v.GetString("EXPORTS_ARCHIVE_DIR"),
		ArchiveTTL:   parseDuration(v.GetString("EXPORTS_ARCHIVE_TTL"), 7*24*time.Hour),
		DownloadTTL:  parseDuration(v.GetString("EXPORTS_DOWNLOAD_TTL"), 24*time.Hour),
		QueueWorkers: v.GetInt("EXPORTS_QUEUE_WORKERS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "flightdesk")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "flightdesk-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TIMELINE_DAY_START_HOUR", 6)
	v.SetDefault("TIMELINE_DAY_END_HOUR", 22)
	v.SetDefault("TIMELINE_INTERVAL_MINUTES", 30)
	v.SetDefault("TIMELINE_DAY_VIEW_CACHE_TTL", "2m")

	v.SetDefault("ENABLE_ROSTER_EXPORTS", true)
	v.SetDefault("EXPORTS_ARCHIVE_DIR", "./exports")
	v.SetDefault("EXPORTS_ARCHIVE_TTL", "168h")
	v.SetDefault("EXPORTS_DOWNLOAD_TTL", "24h")
	v.SetDefault("EXPORTS_QUEUE_WORKERS", 2)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
