package repository

import (
	"context"
	"database/sql"
	"slices"

	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/a2sh3r/expresswash/internal/models"
	"go.uber.org/zap"
)

type AnalyticsRepository interface {
	Totals(ctx context.Context) (models.Totals, error)
	// DailyRevenue returns the latest `days` order dates that have orders, oldest first.
	DailyRevenue(ctx context.Context, days int) ([]models.DailyRevenue, error)
	ServiceQuantities(ctx context.Context) (models.ServiceQuantities, error)
	TopCustomers(ctx context.Context, limit int) ([]models.CustomerRevenue, error)
}

type analyticsRepo struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepo{db: db}
}

func (r *analyticsRepo) Totals(ctx context.Context) (models.Totals, error) {
	var totals models.Totals
	query := `SELECT COUNT(*), COALESCE(SUM(total_amount), 0), COUNT(DISTINCT customer_name) FROM orders`

	err := r.db.QueryRowContext(ctx, query).Scan(&totals.Orders, &totals.Revenue, &totals.UniqueCustomers)
	if err != nil {
		logger.Log.Error("failed to get order totals", zap.Error(err))
		return models.Totals{}, translateError(err)
	}
	return totals, nil
}

func (r *analyticsRepo) DailyRevenue(ctx context.Context, days int) ([]models.DailyRevenue, error) {
	query := `SELECT order_date, SUM(total_amount), COUNT(*) FROM orders
			  GROUP BY order_date
			  ORDER BY order_date DESC
			  LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, days)
	if err != nil {
		logger.Log.Error("failed to query daily revenue", zap.Error(err))
		return nil, translateError(err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Log.Error("failed to close rows", zap.Error(err))
		}
	}(rows)

	result := make([]models.DailyRevenue, 0, days)
	for rows.Next() {
		var d models.DailyRevenue
		if err := rows.Scan(&d.Date, &d.Revenue, &d.Orders); err != nil {
			logger.Log.Error("failed to scan daily revenue", zap.Error(err))
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}

	slices.Reverse(result)
	return result, nil
}

func (r *analyticsRepo) ServiceQuantities(ctx context.Context) (models.ServiceQuantities, error) {
	var q models.ServiceQuantities
	query := `SELECT COALESCE(SUM(regular_clothes_kg), 0), COALESCE(SUM(blankets_kg), 0),
			  	COALESCE(SUM(white_clothes_pieces), 0)
			  FROM orders`

	if err := r.db.QueryRowContext(ctx, query).Scan(&q.RegularKg, &q.BlanketsKg, &q.WhitePieces); err != nil {
		logger.Log.Error("failed to sum service quantities", zap.Error(err))
		return models.ServiceQuantities{}, translateError(err)
	}
	return q, nil
}

func (r *analyticsRepo) TopCustomers(ctx context.Context, limit int) ([]models.CustomerRevenue, error) {
	query := `SELECT customer_name, SUM(total_amount) AS revenue, COUNT(*) FROM orders
			  GROUP BY customer_name
			  ORDER BY revenue DESC, customer_name
			  LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		logger.Log.Error("failed to query top customers", zap.Error(err))
		return nil, translateError(err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Log.Error("failed to close rows", zap.Error(err))
		}
	}(rows)

	result := make([]models.CustomerRevenue, 0, limit)
	for rows.Next() {
		var c models.CustomerRevenue
		if err := rows.Scan(&c.CustomerName, &c.Revenue, &c.Orders); err != nil {
			logger.Log.Error("failed to scan customer revenue", zap.Error(err))
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return result, nil
}
