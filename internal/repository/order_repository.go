package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/a2sh3r/expresswash/internal/models"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=../mocks/repository_mocks/repository_mocks.go -package=repository_mocks github.com/a2sh3r/expresswash/internal/repository OrderRepository,ReceiptRepository,AnalyticsRepository

type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	Update(ctx context.Context, id int64, order *models.Order) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
}

type ReceiptRepository interface {
	// NextReceiptSequence atomically increments and returns the day's receipt counter.
	NextReceiptSequence(ctx context.Context, day time.Time) (int, error)
	// LastReceiptNumber returns the highest receipt number with the given prefix, or "" if none.
	LastReceiptNumber(ctx context.Context, prefix string) (string, error)
}

const orderColumns = `id, receipt_number, customer_name, mobile_number, order_date,
	regular_clothes_kg, blankets_kg, white_clothes_pieces, total_amount, created_at`

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepo{db: db}
}

func NewReceiptRepository(db *sql.DB) ReceiptRepository {
	return &orderRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order   models.Order
		receipt sql.NullString
		mobile  sql.NullString
	)
	err := row.Scan(&order.ID, &receipt, &order.CustomerName, &mobile, &order.OrderDate,
		&order.RegularKg, &order.BlanketsKg, &order.WhitePieces, &order.TotalAmount, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	if receipt.Valid {
		order.ReceiptNumber = &receipt.String
	}
	order.MobileNumber = mobile.String
	return &order, nil
}

func (r *orderRepo) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	query := `INSERT INTO orders (receipt_number, customer_name, mobile_number, order_date,
			  	regular_clothes_kg, blankets_kg, white_clothes_pieces, total_amount)
			  VALUES ($1, $2, NULLIF($3, ''), $4::date, $5, $6, $7, $8)
			  RETURNING ` + orderColumns

	saved, err := scanOrder(r.db.QueryRowContext(ctx, query,
		order.ReceiptNumber, order.CustomerName, order.MobileNumber, order.OrderDate.Format(models.DateLayout),
		order.RegularKg, order.BlanketsKg, order.WhitePieces, order.TotalAmount))
	if err != nil {
		logger.Log.Error("failed to insert order", zap.Error(err))
		return nil, translateError(err)
	}
	return saved, nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, translateError(err)
	}
	return order, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *orderRepo) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Name != "" {
		args = append(args, likePattern(filter.Name))
		conds = append(conds, fmt.Sprintf("customer_name ILIKE $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, filter.Date.Format(models.DateLayout))
		conds = append(conds, fmt.Sprintf("order_date = $%d::date", len(args)))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		conds = append(conds, fmt.Sprintf("total_amount >= $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Log.Error("failed to initiate query", zap.Error(err))
		return nil, translateError(err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Log.Error("failed to close rows", zap.Error(err))
		}
	}(rows)

	orders := make([]models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			logger.Log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return orders, nil
}

func (r *orderRepo) Update(ctx context.Context, id int64, order *models.Order) (*models.Order, error) {
	query := `UPDATE orders
			  SET customer_name = $1, mobile_number = NULLIF($2, ''), order_date = $3::date,
			      regular_clothes_kg = $4, blankets_kg = $5, white_clothes_pieces = $6,
			      total_amount = $7
			  WHERE id = $8
			  RETURNING ` + orderColumns

	saved, err := scanOrder(r.db.QueryRowContext(ctx, query,
		order.CustomerName, order.MobileNumber, order.OrderDate.Format(models.DateLayout),
		order.RegularKg, order.BlanketsKg, order.WhitePieces, order.TotalAmount, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		logger.Log.Error("failed to update order", zap.Int64("id", id), zap.Error(err))
		return nil, translateError(err)
	}
	return saved, nil
}

func (r *orderRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("failed to delete order", zap.Int64("id", id), zap.Error(err))
		return translateError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return translateError(err)
	}
	if affected == 0 {
		return apperrors.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepo) NextReceiptSequence(ctx context.Context, day time.Time) (int, error) {
	query := `INSERT INTO receipt_counters (day, last_seq) VALUES ($1::date, 1)
			  ON CONFLICT (day) DO UPDATE SET last_seq = receipt_counters.last_seq + 1
			  RETURNING last_seq`

	var seq int
	if err := r.db.QueryRowContext(ctx, query, day.Format(models.DateLayout)).Scan(&seq); err != nil {
		logger.Log.Error("failed to advance receipt counter", zap.Error(err))
		return 0, translateError(err)
	}
	return seq, nil
}

func (r *orderRepo) LastReceiptNumber(ctx context.Context, prefix string) (string, error) {
	query := `SELECT receipt_number FROM orders
			  WHERE receipt_number LIKE $1
			  ORDER BY length(receipt_number) DESC, receipt_number DESC
			  LIMIT 1`

	var number string
	err := r.db.QueryRowContext(ctx, query, likeEscaper.Replace(prefix)+"%").Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", translateError(err)
	}
	return number, nil
}
