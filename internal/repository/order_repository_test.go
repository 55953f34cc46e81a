package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/database"
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	orders    OrderRepository
	receipts  ReceiptRepository
	analytics AnalyticsRepository
	reset     func(t *testing.T)
}

func postgresBackend(t *testing.T) backend {
	requirePostgres(t)
	return backend{
		orders:    NewOrderRepository(testDB),
		receipts:  NewReceiptRepository(testDB),
		analytics: NewAnalyticsRepository(testDB),
		reset: func(t *testing.T) {
			_, err := testDB.Exec(`TRUNCATE orders, receipt_counters RESTART IDENTITY`)
			require.NoError(t, err)
		},
	}
}

func mysqlBackend(t *testing.T) backend {
	requireMySQL(t)
	return backend{
		orders:    NewGormOrderRepository(testGorm),
		receipts:  NewGormReceiptRepository(testGorm),
		analytics: NewGormAnalyticsRepository(testGorm),
		reset: func(t *testing.T) {
			require.NoError(t, testGorm.Exec(`DELETE FROM orders`).Error)
			require.NoError(t, testGorm.Exec(`DELETE FROM receipt_counters`).Error)
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, b backend)) {
	t.Run("postgres", func(t *testing.T) { fn(t, postgresBackend(t)) })
	t.Run("mysql", func(t *testing.T) { fn(t, mysqlBackend(t)) })
}

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string {
	return &s
}

func newOrder(name, date string, regular, blankets string, white int64, total string) *models.Order {
	return &models.Order{
		CustomerName: name,
		OrderDate:    day(date),
		RegularKg:    decimal.RequireFromString(regular),
		BlanketsKg:   decimal.RequireFromString(blankets),
		WhitePieces:  white,
		TotalAmount:  decimal.RequireFromString(total),
	}
}

func seedOrders(t *testing.T, b backend) []*models.Order {
	ctx := context.Background()
	seed := []*models.Order{
		newOrder("Asha", "2024-05-01", "2", "1", 3, "320"),
		newOrder("Ravi Kumar", "2024-05-01", "1.5", "0", 0, "75"),
		newOrder("asha mehta", "2024-05-02", "0", "2", 1, "240"),
		newOrder("Zoe_1", "2024-05-03", "0.5", "0", 0, "25"),
	}

	saved := make([]*models.Order, 0, len(seed))
	for _, o := range seed {
		s, err := b.orders.Insert(ctx, o)
		require.NoError(t, err)
		saved = append(saved, s)
		// created_at ordering must be deterministic between rows
		time.Sleep(5 * time.Millisecond)
	}
	return saved
}

func TestOrderRepo_Insert(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		b.reset(t)
		ctx := context.Background()

		before := time.Now().Add(-time.Minute)
		order := newOrder("Asha", "2024-05-01", "2.00", "1.00", 3, "320.00")
		order.MobileNumber = "9876543210"
		order.ReceiptNumber = strPtr("RW-20240501-0001")

		saved, err := b.orders.Insert(ctx, order)
		require.NoError(t, err)

		assert.NotZero(t, saved.ID)
		assert.Equal(t, "Asha", saved.CustomerName)
		assert.Equal(t, "9876543210", saved.MobileNumber)
		require.NotNil(t, saved.ReceiptNumber)
		assert.Equal(t, "RW-20240501-0001", *saved.ReceiptNumber)
		assert.Equal(t, "2024-05-01", saved.OrderDate.Format(models.DateLayout))
		assert.True(t, saved.TotalAmount.Equal(decimal.NewFromInt(320)))
		assert.False(t, saved.CreatedAt.IsZero())
		assert.True(t, saved.CreatedAt.After(before))
		assert.False(t, saved.CreatedAt.After(time.Now().Add(time.Minute)))

		dup := newOrder("Other", "2024-05-01", "0", "0", 1, "40")
		dup.ReceiptNumber = strPtr("RW-20240501-0001")
		_, err = b.orders.Insert(ctx, dup)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		noReceipt, err := b.orders.Insert(ctx, newOrder("Web", "2024-05-01", "1", "0", 0, "50"))
		require.NoError(t, err)
		assert.Nil(t, noReceipt.ReceiptNumber)
	})
}

func TestOrderRepo_GetByID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		b.reset(t)
		saved := seedOrders(t, b)
		ctx := context.Background()

		got, err := b.orders.GetByID(ctx, saved[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "Ravi Kumar", got.CustomerName)
		assert.True(t, got.RegularKg.Equal(decimal.RequireFromString("1.5")))
		assert.Equal(t, saved[1].CreatedAt.Unix(), got.CreatedAt.Unix())

		_, err = b.orders.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	})
}

func TestOrderRepo_List(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		b.reset(t)
		seedOrders(t, b)
		ctx := context.Background()

		may1 := day("2024-05-01")
		minTotal := decimal.NewFromInt(100)

		tests := []struct {
			name      string
			filter    models.OrderFilter
			wantNames []string
		}{
			{"all newest first", models.OrderFilter{}, []string{"Zoe_1", "asha mehta", "Ravi Kumar", "Asha"}},
			{"name case insensitive", models.OrderFilter{Name: "ASHA"}, []string{"asha mehta", "Asha"}},
			{"underscore is literal", models.OrderFilter{Name: "e_"}, []string{"Zoe_1"}},
			{"by date", models.OrderFilter{Date: &may1}, []string{"Ravi Kumar", "Asha"}},
			{"min amount", models.OrderFilter{MinAmount: &minTotal}, []string{"asha mehta", "Asha"}},
			{"combined", models.OrderFilter{Name: "asha", Date: &may1, MinAmount: &minTotal}, []string{"Asha"}},
			{"limit", models.OrderFilter{Limit: 2}, []string{"Zoe_1", "asha mehta"}},
			{"no match", models.OrderFilter{Name: "nobody"}, []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				orders, err := b.orders.List(ctx, tt.filter)
				require.NoError(t, err)

				names := make([]string, 0, len(orders))
				for _, o := range orders {
					names = append(names, o.CustomerName)
				}
				assert.Equal(t, tt.wantNames, names)
			})
		}
	})
}

func TestOrderRepo_Update(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		b.reset(t)
		ctx := context.Background()

		original := newOrder("Asha", "2024-05-01", "2", "1", 3, "320")
		original.ReceiptNumber = strPtr("RW-20240501-0001")
		saved, err := b.orders.Insert(ctx, original)
		require.NoError(t, err)

		changes := newOrder("Asha Rao", "2024-05-04", "3", "0", 0, "150")
		changes.MobileNumber = "020-555-0134"
		updated, err := b.orders.Update(ctx, saved.ID, changes)
		require.NoError(t, err)

		assert.Equal(t, saved.ID, updated.ID)
		assert.Equal(t, *saved.ReceiptNumber, *updated.ReceiptNumber)
		assert.Equal(t, saved.CreatedAt.Unix(), updated.CreatedAt.Unix())
		assert.Equal(t, "Asha Rao", updated.CustomerName)
		assert.Equal(t, "020-555-0134", updated.MobileNumber)
		assert.Equal(t, "2024-05-04", updated.OrderDate.Format(models.DateLayout))
		assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(150)))

		same, err := b.orders.Update(ctx, saved.ID, changes)
		require.NoError(t, err)
		assert.Equal(t, updated.ID, same.ID)

		_, err = b.orders.Update(ctx, 999999, changes)
		assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
	})
}

func TestOrderRepo_Delete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		b.reset(t)
		saved := seedOrders(t, b)
		ctx := context.Background()

		require.NoError(t, b.orders.Delete(ctx, saved[0].ID))

		_, err := b.orders.GetByID(ctx, saved[0].ID)
		assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)

		assert.ErrorIs(t, b.orders.Delete(ctx, saved[0].ID), apperrors.ErrOrderNotFound)
	})
}

func TestReceiptRepo_NextReceiptSequence(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		b.reset(t)
		ctx := context.Background()
		today := day("2024-05-01")

		first, err := b.receipts.NextReceiptSequence(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, 1, first)

		second, err := b.receipts.NextReceiptSequence(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, 2, second)

		other, err := b.receipts.NextReceiptSequence(ctx, day("2024-05-02"))
		require.NoError(t, err)
		assert.Equal(t, 1, other)
	})
}

func TestReceiptRepo_NextReceiptSequence_Concurrent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		b.reset(t)
		ctx := context.Background()
		today := day("2024-05-01")

		const workers = 16
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[int]bool)
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				seq, err := b.receipts.NextReceiptSequence(ctx, today)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				assert.False(t, seen[seq], "sequence %d issued twice", seq)
				seen[seq] = true
			}()
		}
		wg.Wait()

		for seq := 1; seq <= workers; seq++ {
			assert.True(t, seen[seq], fmt.Sprintf("sequence %d missing", seq))
		}
	})
}

func TestReceiptRepo_LastReceiptNumber(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b backend) {
		b.reset(t)
		ctx := context.Background()

		last, err := b.receipts.LastReceiptNumber(ctx, "RW-20240501-")
		require.NoError(t, err)
		assert.Empty(t, last)

		for _, number := range []string{"RW-20240501-0002", "RW-20240501-9999", "RW-20240501-10000", "RW-20240502-0001"} {
			o := newOrder("Asha", "2024-05-01", "1", "0", 0, "50")
			o.ReceiptNumber = strPtr(number)
			_, err := b.orders.Insert(ctx, o)
			require.NoError(t, err)
		}

		last, err = b.receipts.LastReceiptNumber(ctx, "RW-20240501-")
		require.NoError(t, err)
		assert.Equal(t, "RW-20240501-10000", last)
	})
}

func TestReceiptRepo_CountersContinueStoredReceipts(t *testing.T) {
	b := mysqlBackend(t)
	b.reset(t)
	ctx := context.Background()

	// receipts written straight into orders, as the desktop app did
	for _, number := range []string{"RW-20240501-0007", "RW-20240501-0012", "RW-20240502-0003"} {
		o := newOrder("Asha", "2024-05-01", "1", "0", 0, "50")
		o.ReceiptNumber = strPtr(number)
		_, err := b.orders.Insert(ctx, o)
		require.NoError(t, err)
	}

	require.NoError(t, database.SeedReceiptCounters(testGorm))
	require.NoError(t, database.SeedReceiptCounters(testGorm))

	next, err := b.receipts.NextReceiptSequence(ctx, day("2024-05-01"))
	require.NoError(t, err)
	assert.Equal(t, 13, next)

	next, err = b.receipts.NextReceiptSequence(ctx, day("2024-05-02"))
	require.NoError(t, err)
	assert.Equal(t, 4, next)

	// a counter already ahead of stored receipts is never lowered
	require.NoError(t, database.SeedReceiptCounters(testGorm))
	next, err = b.receipts.NextReceiptSequence(ctx, day("2024-05-01"))
	require.NoError(t, err)
	assert.Equal(t, 14, next)
}
