package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverREST    = "rest"
	DriverMySQL   = "mysql"
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	EnvProduction = "production"
)

// Config holds everything read from the environment.
type Config struct {
	AppEnv         string
	LogLevel       string
	ServerAddress  string
	ContextTimeout time.Duration
	AllowedOrigins []string
	Debug          bool

	BackendDriver    string
	BackendURL       string
	BackendAnonKey   string
	BackendJWTSecret string
	BackendRPS       float64
	StorageBucket    string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	CacheDriver string
	CacheHost   string
	CachePort   string
	CachePass   string
	CacheDB     int

	FollowCacheTTL time.Duration
	FeedPageSize   int
}

// Load reads .env when present, then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		logrus.Warnf("could not load .env file, using the environment only: %v", err)
	}

	cfg := Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServerAddress:  getEnv("SERVER_ADDRESS", ":9090"),
		ContextTimeout: getEnvAsDuration("CONTEXT_TIMEOUT", 30*time.Second),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS"),
		Debug:          getEnvAsBool("DEBUG", false),

		BackendDriver:    strings.ToLower(getEnv("BACKEND_DRIVER", DriverREST)),
		BackendURL:       strings.TrimRight(getEnv("BACKEND_URL", ""), "/"),
		BackendAnonKey:   getEnv("BACKEND_ANON_KEY", ""),
		BackendJWTSecret: getEnv("BACKEND_JWT_SECRET", ""),
		BackendRPS:       getEnvAsFloat("BACKEND_RPS", 0),
		StorageBucket:    getEnv("STORAGE_BUCKET", "artworks"),

		DBHost: getEnv("DATABASE_HOST", "127.0.0.1"),
		DBPort: getEnv("DATABASE_PORT", "3306"),
		DBUser: getEnv("DATABASE_USER", ""),
		DBPass: getEnv("DATABASE_PASS", ""),
		DBName: getEnv("DATABASE_NAME", ""),

		CacheDriver: strings.ToLower(getEnv("CACHE_DRIVER", CacheMemory)),
		CacheHost:   getEnv("CACHE_HOST", "127.0.0.1"),
		CachePort:   getEnv("CACHE_PORT", "6379"),
		CachePass:   getEnv("CACHE_PASS", ""),
		CacheDB:     getEnvAsInt("CACHE_DB", 0),

		FollowCacheTTL: getEnvAsDuration("FOLLOW_CACHE_TTL", 2*time.Minute),
		FeedPageSize:   getEnvAsInt("FEED_PAGE_SIZE", 20),
	}
	return cfg, cfg.Validate()
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	switch c.BackendDriver {
	case DriverREST:
		if c.BackendURL == "" {
			return errors.New("BACKEND_URL is required for the rest driver")
		}
	case DriverMySQL:
		if c.DBUser == "" || c.DBName == "" {
			return errors.New("DATABASE_USER and DATABASE_NAME are required for the mysql driver")
		}
	default:
		return fmt.Errorf("unknown BACKEND_DRIVER %q", c.BackendDriver)
	}
	if c.CacheDriver != CacheMemory && c.CacheDriver != CacheRedis {
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}
	if c.FeedPageSize <= 0 {
		return errors.New("FEED_PAGE_SIZE must be positive")
	}
	for _, o := range c.AllowedOrigins {
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("ALLOWED_ORIGINS entry %q must start with http:// or https://", o)
		}
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// DSN is the mysql connection string of the direct driver.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return val
	}
	return defaultVal
}

// getEnvAsDuration accepts Go durations ("90s", "2m") and bare seconds ("30").
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	s := getEnv(key, "")
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	logrus.Warnf("invalid %s %q, using %s", key, s, defaultVal)
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
