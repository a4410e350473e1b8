package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBDriver        string // "mysql" (default) or "sqlite"
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBPath          string // sqlite file, ":memory:" allowed
	DBMigrationMode string // "auto" (default) adds tables and columns, "drop" recreates every table

	// Server
	ServerPort string
	CORSOrigin string

	// Redis
	RedisEnabled bool
	RedisHost    string
	RedisPort    string
	RedisDB      int

	// Reports
	ReportsDir string

	// Response cache and rate limiting
	CacheTTL       time.Duration
	RateLimit      float64
	RateLimitBurst int

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the configuration from environment variables based on ENV_TYPE
func Load() (*Config, error) {
	envType := strings.ToUpper(getEnv("ENV_TYPE", "LOCAL"))
	var prefix string
	switch envType {
	case "LOCAL":
		prefix = "LOCAL_"
	case "SERVER":
		prefix = "SERVER_"
	default:
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	cfg := &Config{
		EnvType: envType,

		DBDriver:        strings.ToLower(getEnv(prefix+"DB_DRIVER", getEnv("DB_DRIVER", "mysql"))),
		DBHost:          getEnv(prefix+"DB_HOST", "localhost"),
		DBUser:          getEnv(prefix+"DB_USER", ""),
		DBPassword:      getEnv(prefix+"DB_PASSWORD", ""),
		DBName:          getEnv(prefix+"DB_NAME", "hoa"),
		DBPort:          getEnv(prefix+"DB_PORT", "3306"),
		DBPath:          getEnv(prefix+"DB_PATH", "hoa.db"),
		DBMigrationMode: getEnv(prefix+"DB_MIGRATION_MODE", "auto"),

		ServerPort: getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "8080")),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		RedisEnabled: getEnvAsBool("REDIS_ENABLED", false),
		RedisHost:    getEnv(prefix+"REDIS_HOST", getEnv("REDIS_HOST", "localhost")),
		RedisPort:    getEnv(prefix+"REDIS_PORT", getEnv("REDIS_PORT", "6379")),
		RedisDB:      getEnvAsInt("REDIS_DB", 0),

		ReportsDir: getEnv("REPORTS_DIR", "reports"),

		CacheTTL:       time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		RateLimit:      getEnvAsFloat("RATE_LIMIT", 20),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 40),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if cfg.DBDriver == "mysql" && cfg.DBUser == "" {
		return nil, fmt.Errorf("required environment variable %sDB_USER is not set", prefix)
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			panic(err)
		}
		config = cfg
	})
	return config
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.DBDriver == "sqlite" {
		return c.DBPath
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as boolean with default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
