package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 10*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "IDR", cfg.DefaultCurrency)
	assert.Equal(t, "Asia/Jakarta", cfg.DefaultTimeZone)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.False(t, cfg.IsProd)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_EXPIRY", "0")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("IS_PROD", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Zero(t, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProd)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadDatabase_WithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "/tmp/finance.db")

	db, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.DBDriver)
	dsn, err := db.DSN()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/finance.db", dsn)
}

func TestDSN(t *testing.T) {
	db := &Database{DBDriver: "mysql", DBUser: "app", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "finance"}
	dsn, err := db.DSN()
	require.NoError(t, err)
	assert.Equal(t, "app:pw@tcp(db:3306)/finance?parseTime=true", dsn)

	db.DatabaseURL = "postgres://app@db/finance"
	dsn, err = db.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app@db/finance", dsn)
}

func TestDSN_OtherDriversNeedURL(t *testing.T) {
	for _, driver := range []string{"postgres", "sqlite"} {
		db := &Database{DBDriver: driver, DBHost: "db", DBPort: "3306"}
		_, err := db.DSN()
		assert.ErrorContains(t, err, "DATABASE_URL", driver)
	}
}
