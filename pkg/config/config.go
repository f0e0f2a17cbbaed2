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

// Storage drivers understood by the snapshot persistence layer.
const (
	StorageDriverFile     = "file"
	StorageDriverBolt     = "bolt"
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite3"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mirror   MirrorConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Ledger   LedgerConfig
	CORS     CORSConfig
	Log      LogConfig
}

// StorageConfig selects where the ledger snapshot is persisted.
type StorageConfig struct {
	Driver   string
	FileDir  string
	BoltPath string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// MirrorConfig tunes the best-effort remote snapshot mirror.
type MirrorConfig struct {
	Enabled     bool
	Key         string
	StatusReset time.Duration
	PushTimeout time.Duration
	PullOnStart bool
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// AuthConfig holds the fixed credential table.
type AuthConfig struct {
	AdminUsername   string
	AdminPassword   string
	CashierUsername string
	CashierPassword string
}

// LedgerConfig carries ledger level knobs.
type LedgerConfig struct {
	NodeID         int64
	CurrencySymbol string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads configuration from the given env file (optional) and the process environment.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load(path)

	v := viper.New()
	v.SetConfigFile(path)
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

	cfg.Storage = StorageConfig{
		Driver:   strings.ToLower(v.GetString("STORAGE_DRIVER")),
		FileDir:  v.GetString("STORAGE_FILE_DIR"),
		BoltPath: v.GetString("STORAGE_BOLT_PATH"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		SQLitePath:   v.GetString("SQLITE_PATH"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Mirror = MirrorConfig{
		Enabled:     v.GetBool("ENABLE_MIRROR"),
		Key:         v.GetString("MIRROR_KEY"),
		StatusReset: parseDuration(v.GetString("MIRROR_STATUS_RESET"), 3*time.Second),
		PushTimeout: parseDuration(v.GetString("MIRROR_PUSH_TIMEOUT"), 0),
		PullOnStart: v.GetBool("MIRROR_PULL_ON_START"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
	}

	cfg.Auth = AuthConfig{
		AdminUsername:   v.GetString("AUTH_ADMIN_USERNAME"),
		AdminPassword:   v.GetString("AUTH_ADMIN_PASSWORD"),
		CashierUsername: v.GetString("AUTH_CASHIER_USERNAME"),
		CashierPassword: v.GetString("AUTH_CASHIER_PASSWORD"),
	}

	cfg.Ledger = LedgerConfig{
		NodeID:         v.GetInt64("LEDGER_NODE_ID"),
		CurrencySymbol: v.GetString("CURRENCY_SYMBOL"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORAGE_DRIVER", StorageDriverFile)
	v.SetDefault("STORAGE_FILE_DIR", "./data")
	v.SetDefault("STORAGE_BOLT_PATH", "./data/ledger.db")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_fees")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "./data/ledger.sqlite")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_MIRROR", false)
	v.SetDefault("MIRROR_KEY", "school-fees:snapshot")
	v.SetDefault("MIRROR_STATUS_RESET", "3s")
	v.SetDefault("MIRROR_PUSH_TIMEOUT", "")
	v.SetDefault("MIRROR_PULL_ON_START", false)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")

	v.SetDefault("AUTH_ADMIN_USERNAME", "admin")
	v.SetDefault("AUTH_ADMIN_PASSWORD", "admin123")
	v.SetDefault("AUTH_CASHIER_USERNAME", "cashier")
	v.SetDefault("AUTH_CASHIER_PASSWORD", "cashier123")

	v.SetDefault("LEDGER_NODE_ID", 1)
	v.SetDefault("CURRENCY_SYMBOL", "$")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
