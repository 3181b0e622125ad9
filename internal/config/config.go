package config

import (
	"errors" // For config errors
	"fmt"    // For building the MySQL DSN
	"time"   // For durations

	"github.com/joho/godotenv"             // For loading .env files
	"github.com/kelseyhightower/envconfig" // For decoding env vars into Config
)

// Database holds the connection settings shared by the server and the CLIs
type Database struct {
	DBDriver    string `envconfig:"DB_DRIVER" default:"mysql"`   // mysql, postgres or sqlite
	DatabaseURL string `envconfig:"DATABASE_URL"`                // Full DSN, overrides the DB_* parts
	DBUser      string `envconfig:"DB_USER"`                     // Database user
	DBPassword  string `envconfig:"DB_PASSWORD"`                 // Database password
	DBHost      string `envconfig:"DB_HOST" default:"127.0.0.1"` // Database host
	DBPort      string `envconfig:"DB_PORT" default:"3306"`      // Database port
	DBName      string `envconfig:"DB_NAME"`                     // Database name
}

// Config holds the application configuration
type Config struct {
	// Connection settings, read from the same top-level vars
	Database

	AppPort         string        `envconfig:"PORT" default:"5000"`                      // Application port
	JWTSecret       string        `envconfig:"JWT_SECRET_KEY" required:"true"`           // JWT secret key
	JWTExpiry       time.Duration `envconfig:"JWT_EXPIRY" default:"10m"`                 // Token lifetime, 0 disables expiry
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`                 // Allowed cross-origin hosts
	TrustedProxies  []string      `envconfig:"TRUSTED_PROXIES" default:"127.0.0.1"`      // Proxies gin trusts for client IPs
	RedisAddr       string        `envconfig:"REDIS_ADDR"`                               // Redis server address, empty disables caching
	RedisPass       string        `envconfig:"REDIS_PASS"`                               // Redis password
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`                     // Redis database number
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" default:"60s"`                  // Cache entry lifetime
	DefaultCurrency string        `envconfig:"DEFAULT_CURRENCY" default:"IDR"`           // Currency code for new transactions
	DefaultTimeZone string        `envconfig:"DEFAULT_TIME_ZONE" default:"Asia/Jakarta"` // Time zone label for new transactions
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`                 // Logrus level
	IsProd          bool          `envconfig:"IS_PROD" default:"false"`                  // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	// An empty prefix makes envconfig read the tag names as-is
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	// envconfig accepts a required var that is set but empty
	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET_KEY must not be empty")
	}
	return &cfg, nil
}

// LoadDatabase loads only the connection settings, so tools that never issue
// tokens do not need JWT_SECRET_KEY
func LoadDatabase() (*Database, error) {
	_ = godotenv.Load()
	var db Database
	if err := envconfig.Process("", &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// DSN returns the connection string for the configured driver. Only MySQL
// can be assembled from the DB_* parts; other drivers need DATABASE_URL.
func (d *Database) DSN() (string, error) {
	if d.DatabaseURL != "" {
		return d.DatabaseURL, nil // Explicit DSN wins
	}
	if d.DBDriver != "mysql" {
		return "", fmt.Errorf("config: DATABASE_URL is required for DB_DRIVER=%s", d.DBDriver)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", d.DBUser, d.DBPassword, d.DBHost, d.DBPort, d.DBName), nil
}
