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

// List response shapes understood by the student API client.
const (
	ShapeEnvelope = "envelope"
	ShapeBare     = "bare"
)

type Config struct {
	Env        string
	BridgePort int

	API           APIConfig
	Notifications NotificationConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	CORS          CORSConfig
	Export        ExportConfig
	Log           LogConfig
}

// APIConfig describes the remote student resource.
type APIConfig struct {
	Base          string
	Timeout       time.Duration
	ListShape     string
	SigningSecret string
	TokenTTL      time.Duration
	TokenIssuer   string
}

// NotificationConfig governs outcome reporting and its delivery workers.
type NotificationConfig struct {
	ConfirmationsEnabled bool
	DisplayTimeout       time.Duration
	Workers              int
	BufferSize           int
	MaxRetries           int
	RetryDelay           time.Duration
	RedisEnabled         bool
	RedisChannel         string
	JournalEnabled       bool
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

// ExportConfig tunes roster downloads for the spreadsheet the school uses.
type ExportConfig struct {
	CSVDelimiter rune
	CSVBOM       bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.BridgePort = v.GetInt("BRIDGE_PORT")

	cfg.API = APIConfig{
		Base:          strings.TrimRight(v.GetString("API_BASE"), "/"),
		Timeout:       parseDuration(v.GetString("API_TIMEOUT"), 10*time.Second),
		ListShape:     parseShape(v.GetString("API_LIST_SHAPE")),
		SigningSecret: v.GetString("API_SIGNING_SECRET"),
		TokenTTL:      parseDuration(v.GetString("API_TOKEN_TTL"), 5*time.Minute),
		TokenIssuer:   v.GetString("API_TOKEN_ISSUER"),
	}

	cfg.Notifications = NotificationConfig{
		ConfirmationsEnabled: v.GetBool("CONFIRMATIONS_ENABLED"),
		DisplayTimeout:       parseDuration(v.GetString("NOTIFY_TIMEOUT"), 3*time.Second),
		Workers:              v.GetInt("NOTIFY_WORKERS"),
		BufferSize:           v.GetInt("NOTIFY_BUFFER"),
		MaxRetries:           v.GetInt("NOTIFY_RETRIES"),
		RetryDelay:           parseDuration(v.GetString("NOTIFY_RETRY_DELAY"), time.Second),
		RedisEnabled:         v.GetBool("ENABLE_REDIS_NOTIFY"),
		RedisChannel:         v.GetString("NOTIFY_REDIS_CHANNEL"),
		JournalEnabled:       v.GetBool("ENABLE_OUTCOME_JOURNAL"),
	}

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

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Export = ExportConfig{
		CSVDelimiter: parseDelimiter(v.GetString("EXPORT_CSV_DELIMITER")),
		CSVBOM:       v.GetBool("EXPORT_CSV_BOM"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("BRIDGE_PORT", 8090)

	v.SetDefault("API_BASE", "http://localhost/api")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("API_LIST_SHAPE", ShapeEnvelope)
	v.SetDefault("API_SIGNING_SECRET", "")
	v.SetDefault("API_TOKEN_TTL", "5m")
	v.SetDefault("API_TOKEN_ISSUER", "sma-rating-sync")

	v.SetDefault("CONFIRMATIONS_ENABLED", true)
	v.SetDefault("NOTIFY_TIMEOUT", "3s")
	v.SetDefault("NOTIFY_WORKERS", 1)
	v.SetDefault("NOTIFY_BUFFER", 64)
	v.SetDefault("NOTIFY_RETRIES", 3)
	v.SetDefault("NOTIFY_RETRY_DELAY", "1s")
	v.SetDefault("ENABLE_REDIS_NOTIFY", false)
	v.SetDefault("NOTIFY_REDIS_CHANNEL", "roster:notifications")
	v.SetDefault("ENABLE_OUTCOME_JOURNAL", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rating_sync")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("EXPORT_CSV_DELIMITER", ",")
	v.SetDefault("EXPORT_CSV_BOM", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// viper reports a missing explicit config file as an fs error, not ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseShape(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), ShapeBare) {
		return ShapeBare
	}
	return ShapeEnvelope
}

// parseDelimiter accepts a single character or "tab"; anything else falls back to a comma.
func parseDelimiter(raw string) rune {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "tab") {
		return '\t'
	}
	r := []rune(raw)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return ','
	}
	return r[0]
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
