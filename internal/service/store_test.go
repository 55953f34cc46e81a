package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/models"
)

// memoryStore is an in-memory order book that enforces receipt uniqueness like the database does.
type memoryStore struct {
	mu       sync.Mutex
	nextID   int64
	orders   map[int64]models.Order
	receipts map[string]bool
	counters map[string]int

	// scanGate, when set, holds the first readers of LastReceiptNumber until all of them have read.
	scanGate *barrier
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:   make(map[int64]models.Order),
		receipts: make(map[string]bool),
		counters: make(map[string]int),
	}
}

func (m *memoryStore) Insert(_ context.Context, order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order.ReceiptNumber != nil {
		if m.receipts[*order.ReceiptNumber] {
			return nil, apperrors.ErrConflict
		}
		m.receipts[*order.ReceiptNumber] = true
	}

	m.nextID++
	saved := *order
	saved.ID = m.nextID
	saved.CreatedAt = time.Now()
	m.orders[saved.ID] = saved
	return &saved, nil
}

func (m *memoryStore) GetByID(_ context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	return &order, nil
}

func (m *memoryStore) List(_ context.Context, _ models.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	return orders, nil
}

func (m *memoryStore) Update(_ context.Context, id int64, order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved, ok := m.orders[id]
	if !ok {
		return nil, apperrors.ErrOrderNotFound
	}
	saved.CustomerName = order.CustomerName
	saved.MobileNumber = order.MobileNumber
	saved.OrderDate = order.OrderDate
	saved.RegularKg = order.RegularKg
	saved.BlanketsKg = order.BlanketsKg
	saved.WhitePieces = order.WhitePieces
	saved.TotalAmount = order.TotalAmount
	m.orders[id] = saved
	return &saved, nil
}

func (m *memoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return apperrors.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memoryStore) NextReceiptSequence(_ context.Context, day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := day.Format(models.DateLayout)
	m.counters[key]++
	return m.counters[key], nil
}

func (m *memoryStore) LastReceiptNumber(_ context.Context, prefix string) (string, error) {
	m.mu.Lock()
	var last string
	for number := range m.receipts {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		if len(number) > len(last) || (len(number) == len(last) && number > last) {
			last = number
		}
	}
	m.mu.Unlock()

	if m.scanGate != nil {
		m.scanGate.wait()
	}
	return last, nil
}

func (m *memoryStore) receiptNumbers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	numbers := make([]string, 0, len(m.orders))
	for _, o := range m.orders {
		if o.ReceiptNumber != nil {
			numbers = append(numbers, *o.ReceiptNumber)
		}
	}
	return numbers
}

// barrier releases its first n callers together; later callers pass straight through.
type barrier struct {
	n       int
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{n: n, release: make(chan struct{})}
}

func (b *barrier) wait() {
	b.mu.Lock()
	b.arrived++
	held := b.arrived <= b.n
	if b.arrived == b.n {
		close(b.release)
	}
	b.mu.Unlock()

	if held {
		<-b.release
	}
}
