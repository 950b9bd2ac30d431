package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Conflict modes accepted by SUBSTITUTION_CONFLICT_MODE.
const (
	ConflictModeStartTime = "start_time"
	ConflictModeOverlap   = "overlap"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Substitution SubstitutionConfig
	Timetable    TimetableConfig
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
	Enabled  bool
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

// SubstitutionConfig tunes the substitute search and ledger event fan-out.
type SubstitutionConfig struct {
	ConflictMode          string
	RejectExcludesCurrent bool
	EventsEnabled         bool
	EventsChannel         string
	EventWorkers          int
	EventRetries          int
	EventBuffer           int
	EventDrainTimeout     time.Duration
}

// TimetableConfig governs the read-side timetable views.
type TimetableConfig struct {
	CacheTTL time.Duration
	Timezone string
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
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
		Enabled:  v.GetBool("ENABLE_REDIS"),
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

	cfg.Substitution = SubstitutionConfig{
		ConflictMode:          normalizeConflictMode(v.GetString("SUBSTITUTION_CONFLICT_MODE")),
		RejectExcludesCurrent: v.GetBool("SUBSTITUTION_REJECT_EXCLUDES_CURRENT"),
		EventsEnabled:         v.GetBool("SUBSTITUTION_EVENTS_ENABLED"),
		EventsChannel:         v.GetString("SUBSTITUTION_EVENTS_CHANNEL"),
		EventWorkers:          v.GetInt("SUBSTITUTION_EVENT_WORKERS"),
		EventRetries:          v.GetInt("SUBSTITUTION_EVENT_RETRIES"),
		EventBuffer:           v.GetInt("SUBSTITUTION_EVENT_BUFFER"),
		EventDrainTimeout:     parseDuration(v.GetString("SUBSTITUTION_EVENT_DRAIN_TIMEOUT"), 5*time.Second),
	}

	cfg.Timetable = TimetableConfig{
		CacheTTL: parseDuration(v.GetString("TIMETABLE_CACHE_TTL"), 10*time.Minute),
		Timezone: v.GetString("SCHOOL_TIMEZONE"),
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
	v.SetDefault("DB_NAME", "school_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "school-portal")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SUBSTITUTION_CONFLICT_MODE", ConflictModeStartTime)
	v.SetDefault("SUBSTITUTION_REJECT_EXCLUDES_CURRENT", false)
	v.SetDefault("SUBSTITUTION_EVENTS_ENABLED", false)
	v.SetDefault("SUBSTITUTION_EVENTS_CHANNEL", "substitutions.events")
	v.SetDefault("SUBSTITUTION_EVENT_WORKERS", 1)
	v.SetDefault("SUBSTITUTION_EVENT_RETRIES", 3)
	v.SetDefault("SUBSTITUTION_EVENT_BUFFER", 256)
	v.SetDefault("SUBSTITUTION_EVENT_DRAIN_TIMEOUT", "5s")

	v.SetDefault("TIMETABLE_CACHE_TTL", "10m")
	v.SetDefault("SCHOOL_TIMEZONE", "America/Bogota")
}

func normalizeConflictMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ConflictModeOverlap:
		return ConflictModeOverlap
	default:
		return ConflictModeStartTime
	}
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
