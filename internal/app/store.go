package app

import (
	"database/sql"
	"fmt"

	"github.com/a2sh3r/expresswash/internal/config"
	"github.com/a2sh3r/expresswash/internal/database"
	"github.com/a2sh3r/expresswash/internal/repository"
)

// Store bundles the repositories of one storage backend and the pool behind them.
type Store struct {
	Orders    repository.OrderRepository
	Receipts  repository.ReceiptRepository
	Analytics repository.AnalyticsRepository
	DB        *sql.DB
}

// OpenStore connects to the backend named by cfg.StorageDriver and brings its schema up to date.
func OpenStore(cfg *config.Config) (*Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMySQL:
		gdb, err := database.InitGorm(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get mysql pool: %w", err)
		}
		return &Store{
			Orders:    repository.NewGormOrderRepository(gdb),
			Receipts:  repository.NewGormReceiptRepository(gdb),
			Analytics: repository.NewGormAnalyticsRepository(gdb),
			DB:        sqlDB,
		}, nil
	case config.DriverPostgres:
		db, err := database.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		return &Store{
			Orders:    repository.NewOrderRepository(db),
			Receipts:  repository.NewReceiptRepository(db),
			Analytics: repository.NewAnalyticsRepository(db),
			DB:        db,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

func (s *Store) Close() error {
	return s.DB.Close()
}
