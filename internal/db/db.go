package db

import (
	"fmt" // Error formatting

	"github.com/glebarez/sqlite" // Pure Go SQLite driver for GORM
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/driver/postgres"    // Postgres driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger
)

// Supported values of DB_DRIVER
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database for the given driver and DSN
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector // Dialect picked from driver
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		// Surface gorm.ErrDuplicatedKey on unique violations
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}
