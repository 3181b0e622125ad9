package main

import (
	"context" // context package is needed for Redis operations
	"time"    // Redis ping timeout

	"finance_tracker/internal/api"      // Custom package for API handlers
	"finance_tracker/internal/auth"     // Custom package for authentication
	"finance_tracker/internal/cache"    // Custom package for caching
	"finance_tracker/internal/config"   // Custom package for configuration
	"finance_tracker/internal/db"       // Custom package for database access
	"finance_tracker/internal/ledger"   // Custom package for transactions
	"finance_tracker/internal/location" // Custom package for locations
	"finance_tracker/internal/store"    // Custom package for repositories

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	log := newLogger(cfg)

	// Connect to the database and bring the schema up to date
	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatalf("invalid database settings: %v", err)
	}
	gdb, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	// Redis is optional; without it nothing is cached
	var c cache.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err = redisClient.Ping(ctx).Result()
		cancel()
		if err != nil {
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		c = cache.NewRedis(redisClient)
	} else {
		log.Warn("REDIS_ADDR not set, caching disabled")
	}

	// Repositories and services
	users := store.NewUsers(gdb)
	locations := store.NewLocations(gdb)
	authSvc := auth.NewService(users, auth.BcryptHasher{}, auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpiry), log)
	ledgerSvc := ledger.NewService(store.NewTransactions(gdb), locations, log, ledger.Options{
		Defaults: ledger.Defaults{
			CurrencyCode: cfg.DefaultCurrency,
			CurrencyRate: 1,
			TimeZone:     cfg.DefaultTimeZone,
		},
		Cache:    c,
		CacheTTL: cfg.CacheTTL,
	})
	locationSvc := location.NewService(locations, c, cfg.CacheTTL, log)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Deps{
		Auth:           authSvc,
		Ledger:         ledgerSvc,
		Locations:      locationSvc,
		Log:            log,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	log.WithFields(logrus.Fields{"port": cfg.AppPort, "driver": cfg.DBDriver}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		log.Fatalf("server stopped: %v", err)
	}
}

// newLogger configures logrus from the environment
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		log.SetFormatter(&logrus.JSONFormatter{}) // Machine readable in production
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
