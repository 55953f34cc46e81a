package repository

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/a2sh3r/expresswash/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormRepo serves the MySQL backend through gorm.
type gormRepo struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &gormRepo{db: db}
}

func NewGormReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &gormRepo{db: db}
}

func NewGormAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &gormRepo{db: db}
}

func (r *gormRepo) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	rec := *order
	rec.ID = 0
	rec.CreatedAt = time.Time{}

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		logger.Log.Error("failed to insert order", zap.Error(err))
		return nil, translateError(err)
	}
	return r.GetByID(ctx, rec.ID)
}

func (r *gormRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &order, nil
}

func (r *gormRepo) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Name != "" {
		q = q.Where("LOWER(customer_name) LIKE LOWER(?)", likePattern(filter.Name))
	}
	if filter.Date != nil {
		q = q.Where("order_date = ?", filter.Date.Format(models.DateLayout))
	}
	if filter.MinAmount != nil {
		q = q.Where("total_amount >= ?", *filter.MinAmount)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	orders := make([]models.Order, 0)
	if err := q.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		logger.Log.Error("failed to list orders", zap.Error(err))
		return nil, translateError(err)
	}
	return orders, nil
}

func (r *gormRepo) Update(ctx context.Context, id int64, order *models.Order) (*models.Order, error) {
	var saved models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&saved, id).Error; err != nil {
			return err
		}

		// MySQL reports only changed rows, so existence is checked above rather than via RowsAffected.
		err := tx.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
			"customer_name":        order.CustomerName,
			"mobile_number":        order.MobileNumber,
			"order_date":           order.OrderDate.Format(models.DateLayout),
			"regular_clothes_kg":   order.RegularKg,
			"blankets_kg":          order.BlanketsKg,
			"white_clothes_pieces": order.WhitePieces,
			"total_amount":         order.TotalAmount,
		}).Error
		if err != nil {
			return err
		}
		return tx.First(&saved, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		logger.Log.Error("failed to update order", zap.Int64("id", id), zap.Error(err))
		return nil, translateError(err)
	}
	return &saved, nil
}

func (r *gormRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		logger.Log.Error("failed to delete order", zap.Int64("id", id), zap.Error(res.Error))
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOrderNotFound
	}
	return nil
}

func (r *gormRepo) NextReceiptSequence(ctx context.Context, day time.Time) (int, error) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	var counter models.ReceiptCounter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			DoUpdates: clause.Assignments(map[string]any{"last_seq": gorm.Expr("last_seq + 1")}),
		}).Create(&models.ReceiptCounter{Day: day, LastSeq: 1}).Error
		if err != nil {
			return err
		}
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("day = ?", day.Format(models.DateLayout)).
			First(&counter).Error
	})
	if err != nil {
		logger.Log.Error("failed to advance receipt counter", zap.Error(err))
		return 0, translateError(err)
	}
	return counter.LastSeq, nil
}

func (r *gormRepo) LastReceiptNumber(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("receipt_number LIKE ?", likeEscaper.Replace(prefix)+"%").
		Order("LENGTH(receipt_number) DESC, receipt_number DESC").
		Limit(1).
		Pluck("receipt_number", &numbers).Error
	if err != nil {
		return "", translateError(err)
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (r *gormRepo) Totals(ctx context.Context) (models.Totals, error) {
	var totals models.Totals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS orders,
			COALESCE(SUM(total_amount), 0) AS revenue,
			COUNT(DISTINCT customer_name) AS unique_customers
		FROM orders
	`).Scan(&totals).Error
	if err != nil {
		logger.Log.Error("failed to get order totals", zap.Error(err))
		return models.Totals{}, translateError(err)
	}
	return totals, nil
}

func (r *gormRepo) DailyRevenue(ctx context.Context, days int) ([]models.DailyRevenue, error) {
	result := make([]models.DailyRevenue, 0, days)
	err := r.db.WithContext(ctx).Raw(`
		SELECT order_date AS date, SUM(total_amount) AS revenue, COUNT(*) AS orders
		FROM orders
		GROUP BY order_date
		ORDER BY order_date DESC
		LIMIT ?
	`, days).Scan(&result).Error
	if err != nil {
		logger.Log.Error("failed to query daily revenue", zap.Error(err))
		return nil, translateError(err)
	}

	slices.Reverse(result)
	return result, nil
}

func (r *gormRepo) ServiceQuantities(ctx context.Context) (models.ServiceQuantities, error) {
	var q models.ServiceQuantities
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(regular_clothes_kg), 0) AS regular_kg,
			COALESCE(SUM(blankets_kg), 0) AS blankets_kg,
			COALESCE(SUM(white_clothes_pieces), 0) AS white_pieces
		FROM orders
	`).Scan(&q).Error
	if err != nil {
		logger.Log.Error("failed to sum service quantities", zap.Error(err))
		return models.ServiceQuantities{}, translateError(err)
	}
	return q, nil
}

func (r *gormRepo) TopCustomers(ctx context.Context, limit int) ([]models.CustomerRevenue, error) {
	result := make([]models.CustomerRevenue, 0, limit)
	err := r.db.WithContext(ctx).Raw(`
		SELECT customer_name, SUM(total_amount) AS revenue, COUNT(*) AS orders
		FROM orders
		GROUP BY customer_name
		ORDER BY revenue DESC, customer_name
		LIMIT ?
	`, limit).Scan(&result).Error
	if err != nil {
		logger.Log.Error("failed to query top customers", zap.Error(err))
		return nil, translateError(err)
	}
	return result, nil
}
