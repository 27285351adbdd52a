package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a database connection for the configured driver and verifies it with a ping.
// Callers own the returned handle and must release it with Close.
func Connect(cfg Config) (*gorm.DB, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	dialector, err := dialectorFor(cfg, timeout)
	if err != nil {
		return nil, err
	}

	// Suppress GORM logging; the sync logs its own progress through zap.
	// Writes are single statements, each committed on its own.
	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// A run holds one connection open for its whole duration and issues writes serially
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	return db, nil
}

// Close releases the connection pool behind db. It is safe to call with nil.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// dialectorFor builds the GORM dialector, preferring an explicit DSN over discrete fields.
func dialectorFor(cfg Config, timeout int) (gorm.Dialector, error) {
	dsn := cfg.DSN

	switch cfg.Driver {
	case DriverMySQL:
		if dsn == "" {
			// Special characters in the password must be URL encoded for the mysql DSN format
			userInfo := url.UserPassword(cfg.User, cfg.Password).String()
			dsn = fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
				userInfo, cfg.Host, portOr(cfg.Port, 3306), cfg.Name, timeout, timeout, timeout)
		}
		return mysql.Open(dsn), nil
	case DriverPostgres:
		if dsn == "" {
			u := url.URL{
				Scheme:   "postgres",
				User:     url.UserPassword(cfg.User, cfg.Password),
				Host:     fmt.Sprintf("%s:%d", cfg.Host, portOr(cfg.Port, 5432)),
				Path:     cfg.Name,
				RawQuery: fmt.Sprintf("sslmode=disable&connect_timeout=%d", timeout),
			}
			dsn = u.String()
		}
		return postgres.Open(dsn), nil
	case DriverSQLServer:
		if dsn == "" {
			u := url.URL{
				Scheme:   "sqlserver",
				User:     url.UserPassword(cfg.User, cfg.Password),
				Host:     fmt.Sprintf("%s:%d", cfg.Host, portOr(cfg.Port, 1433)),
				RawQuery: url.Values{"database": {cfg.Name}, "connection timeout": {fmt.Sprint(timeout)}}.Encode(),
			}
			dsn = u.String()
		}
		return sqlserver.Open(dsn), nil
	case DriverSQLite:
		if dsn == "" {
			dsn = cfg.Name
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func portOr(port, fallback int) int {
	if port <= 0 {
		return fallback
	}
	return port
}
