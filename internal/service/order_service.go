package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/config"
	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/a2sh3r/expresswash/internal/pricing"
	"github.com/a2sh3r/expresswash/internal/repository"
	"github.com/a2sh3r/expresswash/internal/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=../mocks/service_mocks/service_mocks.go -package=service_mocks github.com/a2sh3r/expresswash/internal/service OrderService,AnalyticsService,AuthService

const (
	MaxCustomerNameLen  = 255
	DefaultReceiptTries = 5
)

var (
	// maxWeightKg is the first value a decimal(5,2) column cannot hold.
	maxWeightKg = decimal.NewFromInt(1000)
	// maxTotal is the largest value of a decimal(10,2) column.
	maxTotal = decimal.RequireFromString("99999999.99")
)

// MaxWhitePieces is the largest piece count the INTEGER column holds.
const MaxWhitePieces = math.MaxInt32

type OrderService interface {
	Quote(input models.OrderInput) (models.Bill, error)
	Create(ctx context.Context, input models.OrderInput) (*models.Order, error)
	Update(ctx context.Context, id int64, input models.OrderInput) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
}

type OrderServiceConfig struct {
	Rates           pricing.Rates
	IssueReceipts   bool
	ReceiptStrategy string
	ReceiptAttempts int
	// Now dates receipt numbers. Defaults to time.Now.
	Now func() time.Time
}

func NewOrderServiceConfig(cfg *config.Config) OrderServiceConfig {
	return OrderServiceConfig{
		Rates: pricing.Rates{
			RegularPerKg:  cfg.RateRegularKg,
			BlanketsPerKg: cfg.RateBlanketsKg,
			WhitePerPiece: cfg.RateWhitePiece,
		},
		IssueReceipts:   cfg.IssueReceipts,
		ReceiptStrategy: cfg.ReceiptStrategy,
		ReceiptAttempts: cfg.ReceiptAttempts,
	}
}

type orderService struct {
	repo       repository.OrderRepository
	receipts   ReceiptGenerator
	calculator *pricing.Calculator
	cfg        OrderServiceConfig
}

func NewOrderService(repo repository.OrderRepository, receiptRepo repository.ReceiptRepository, cfg OrderServiceConfig) OrderService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ReceiptAttempts < 1 {
		cfg.ReceiptAttempts = DefaultReceiptTries
	}
	return &orderService{
		repo:       repo,
		receipts:   NewReceiptGenerator(cfg.ReceiptStrategy, receiptRepo),
		calculator: pricing.NewCalculator(cfg.Rates),
		cfg:        cfg,
	}
}

func (s *orderService) Quote(input models.OrderInput) (models.Bill, error) {
	verr := &apperrors.ValidationError{}
	validateQuantities(verr, input)
	if err := verr.OrNil(); err != nil {
		return models.Bill{}, err
	}
	return s.bill(input)
}

// bill prices validated quantities and rejects totals the store cannot hold.
func (s *orderService) bill(input models.OrderInput) (models.Bill, error) {
	bill := s.calculator.Calculate(input.RegularKg, input.BlanketsKg, input.WhitePieces)
	if bill.Total.Round(2).GreaterThan(maxTotal) {
		verr := &apperrors.ValidationError{}
		verr.Add("total_amount", "must be at most "+maxTotal.StringFixed(2))
		return models.Bill{}, verr.OrNil()
	}
	return bill, nil
}

func (s *orderService) Create(ctx context.Context, input models.OrderInput) (*models.Order, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		return nil, err
	}

	if !s.cfg.IssueReceipts {
		saved, err := s.repo.Insert(ctx, order)
		if err != nil {
			return nil, err
		}
		logger.Log.Info("order created", zap.Int64("id", saved.ID))
		return saved, nil
	}

	day := s.cfg.Now()
	for attempt := 1; ; attempt++ {
		number, err := s.receipts.Next(ctx, day)
		if err != nil {
			return nil, err
		}
		order.ReceiptNumber = &number

		saved, err := s.repo.Insert(ctx, order)
		if err == nil {
			logger.Log.Info("order created", zap.Int64("id", saved.ID), zap.String("receipt", number))
			return saved, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) || attempt >= s.cfg.ReceiptAttempts {
			return nil, err
		}
		logger.Log.Warn("receipt number taken, retrying",
			zap.String("receipt", number), zap.Int("attempt", attempt))
	}
}

func (s *orderService) Update(ctx context.Context, id int64, input models.OrderInput) (*models.Order, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, order)
}

func (s *orderService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("order deleted", zap.Int64("id", id))
	return nil
}

func (s *orderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	filter.Name = strings.TrimSpace(filter.Name)
	return s.repo.List(ctx, filter)
}

// buildOrder validates input and returns the record to persist with a freshly computed total.
func (s *orderService) buildOrder(input models.OrderInput) (*models.Order, error) {
	name := strings.TrimSpace(input.CustomerName)
	mobile := strings.TrimSpace(input.MobileNumber)

	verr := &apperrors.ValidationError{}
	switch {
	case name == "":
		verr.Add("customer_name", "is required")
	case utf8.RuneCountInString(name) > MaxCustomerNameLen:
		verr.Add("customer_name", fmt.Sprintf("must be at most %d characters", MaxCustomerNameLen))
	}
	if mobile != "" && !utils.IsValidMobile(mobile) {
		verr.Add("mobile_number", "must be a phone number of at most 20 characters")
	}
	if input.OrderDate == nil || input.OrderDate.IsZero() {
		verr.Add("order_date", "is required")
	}
	validateQuantities(verr, input)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	bill, err := s.bill(input)
	if err != nil {
		return nil, err
	}
	bill = bill.Rounded()
	d := *input.OrderDate
	return &models.Order{
		CustomerName: name,
		MobileNumber: mobile,
		OrderDate:    time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		RegularKg:    input.RegularKg,
		BlanketsKg:   input.BlanketsKg,
		WhitePieces:  input.WhitePieces,
		TotalAmount:  bill.Total,
	}, nil
}

func validateQuantities(verr *apperrors.ValidationError, input models.OrderInput) {
	validateWeight(verr, "regular_clothes_kg", input.RegularKg)
	validateWeight(verr, "blankets_kg", input.BlanketsKg)
	switch {
	case input.WhitePieces < 0:
		verr.Add("white_clothes_pieces", "must not be negative")
	case input.WhitePieces > MaxWhitePieces:
		verr.Add("white_clothes_pieces", fmt.Sprintf("must be at most %d", MaxWhitePieces))
	}
}

func validateWeight(verr *apperrors.ValidationError, field string, kg decimal.Decimal) {
	switch {
	case kg.IsNegative():
		verr.Add(field, "must not be negative")
	case !kg.Equal(kg.Round(2)):
		verr.Add(field, "must have at most two decimal places")
	case kg.GreaterThanOrEqual(maxWeightKg):
		verr.Add(field, "must be less than 1000")
	}
}
