package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Blog     BlogConfig
	Redis    RedisConfig
	Log      LogConfig
	Lambda   LambdaConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins string
}

// DatabaseConfig holds connection settings for the blogs store.
// URL wins over the individual fields when set (hosted Postgres hands out a single DSN).
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrateMode     string // "migrate" = golang-migrate SQL files, "auto" = gorm AutoMigrate
	Reset           bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// AdminConfig controls who may backfill records
type AdminConfig struct {
	PasswordHash   string
	BackfillPublic bool
}

// BlogConfig holds record defaults
type BlogConfig struct {
	DefaultTitle string
	ManifestPath string
}

// RedisConfig enables rate limiting when Addr is set
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	RateLimit     int
	RateLimitSpan time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level    string
	FilePath string
	JSON     bool
}

// LambdaConfig holds settings for the serverless entrypoint
type LambdaConfig struct {
	FunctionsPrefix string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	readTimeout := getEnvInt("READ_TIMEOUT_SECONDS", 10)
	writeTimeout := getEnvInt("WRITE_TIMEOUT_SECONDS", 10)
	jwtExpirationHours := getEnvInt("JWT_EXPIRATION_HOURS", 24)

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "blogcounter"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
			MigrateMode:     strings.ToLower(getEnv("DB_MIGRATE", "migrate")),
			Reset:           getEnvBool("RESET_DB", false),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Expiration: time.Duration(jwtExpirationHours) * time.Hour,
		},
		Admin: AdminConfig{
			PasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
			BackfillPublic: getEnvBool("BACKFILL_PUBLIC", false),
		},
		Blog: BlogConfig{
			DefaultTitle: getEnv("DEFAULT_TITLE", "Unknown Title"),
			ManifestPath: getEnv("BLOG_MANIFEST", ""),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", ""),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvInt("REDIS_DB", 0),
			RateLimit:     getEnvInt("RATE_LIMIT_REQUESTS", 60),
			RateLimitSpan: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			FilePath: getEnv("LOG_FILE", ""),
			JSON:     getEnvBool("LOG_JSON", true),
		},
		Lambda: LambdaConfig{
			FunctionsPrefix: getEnv("FUNCTIONS_PREFIX", "/.netlify/functions"),
		},
	}
}

// DSN returns the Postgres connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// Masked returns the fields safe to attach to logs and error data
func (d DatabaseConfig) Masked() map[string]interface{} {
	if d.URL != "" {
		return map[string]interface{}{"url": "******"}
	}
	return map[string]interface{}{
		"host":     d.Host,
		"port":     d.Port,
		"user":     d.User,
		"database": d.Name,
		"sslmode":  d.SSLMode,
	}
}

// AdminEnabled reports whether admin tokens can be issued and verified
func (c *Config) AdminEnabled() bool {
	return c.JWT.Secret != "" && c.Admin.PasswordHash != ""
}

// AccessWarnings lists the admin and backfill restrictions operators should know about at startup
func (c *Config) AccessWarnings() []string {
	var warnings []string
	if !c.AdminEnabled() {
		warnings = append(warnings, "JWT_SECRET or ADMIN_PASSWORD_HASH not set: admin login is disabled")
	}
	if c.Admin.BackfillPublic {
		warnings = append(warnings, "BACKFILL_PUBLIC=true: anyone can create records through /blogs")
		return warnings
	}
	if c.AdminEnabled() {
		warnings = append(warnings, "BACKFILL_PUBLIC=false: creating records through /blogs requires an admin token")
	} else {
		warnings = append(warnings, "BACKFILL_PUBLIC=false and admin disabled: records can only be created by views or BLOG_MANIFEST")
	}
	return warnings
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
