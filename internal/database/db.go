package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/a2sh3r/expresswash/internal/config"
	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/a2sh3r/expresswash/internal/models"
	"go.uber.org/zap"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func InitDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if err := runMigrations(cfg.DatabaseURI); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	logger.Log.Info("Successfully connected to the database", zap.String("driver", config.DriverPostgres))
	return db, nil
}

func runMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		logger.Log.Error("failed to create migrate instance", zap.Error(err))
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func(m *migrate.Migrate) {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Log.Error("failed to close migrator", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Log.Info("Migrations completed successfully")
	return nil
}

// InitGorm opens the MySQL backend. The schema is kept in sync with AutoMigrate.
func InitGorm(cfg *config.Config) (*gorm.DB, error) {
	dsn, err := mysqlDSN(cfg.DatabaseURI)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unable to get database handle: %w", err)
	}

	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := gdb.AutoMigrate(&models.Order{}, &models.ReceiptCounter{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := SeedReceiptCounters(gdb); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Log.Info("Successfully connected to the database", zap.String("driver", config.DriverMySQL))
	return gdb, nil
}

// mysqlDSN forces the options the order schema relies on: DATE columns scanned as time.Time in UTC.
func mysqlDSN(raw string) (string, error) {
	dsnCfg, err := mysqldriver.ParseDSN(raw)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	dsnCfg.ParseTime = true
	dsnCfg.Loc = time.UTC
	if dsnCfg.Params == nil {
		dsnCfg.Params = map[string]string{}
	}
	if _, ok := dsnCfg.Params["charset"]; !ok {
		dsnCfg.Params["charset"] = "utf8mb4"
	}
	return dsnCfg.FormatDSN(), nil
}

// seedCountersMySQL raises each day's counter to the highest receipt already stored for it.
const seedCountersMySQL = `
	INSERT INTO receipt_counters (day, last_seq)
	SELECT STR_TO_DATE(SUBSTRING(receipt_number, 4, 8), '%Y%m%d') AS receipt_day,
		MAX(CAST(SUBSTRING(receipt_number, 13) AS UNSIGNED)) AS receipt_seq
	FROM orders
	WHERE receipt_number REGEXP '^RW-[0-9]{8}-[0-9]{4,}$'
	GROUP BY receipt_day
	ON DUPLICATE KEY UPDATE last_seq = GREATEST(last_seq, VALUES(last_seq))`

// SeedReceiptCounters lets the counter strategy continue after receipts written by the desktop app
// or by the scan strategy. It is safe to run on every start.
func SeedReceiptCounters(gdb *gorm.DB) error {
	res := gdb.Exec(seedCountersMySQL)
	if res.Error != nil {
		return fmt.Errorf("failed to seed receipt counters: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Log.Info("Receipt counters seeded from stored receipts", zap.Int64("rows", res.RowsAffected))
	}
	return nil
}
