package service

import (
	"context"

	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/a2sh3r/expresswash/internal/pricing"
	"github.com/a2sh3r/expresswash/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	DefaultSummaryDays  = 30
	DefaultTopCustomers = 10
	RecentOrdersCount   = 5
)

const (
	ServiceRegular  = "regular_clothes"
	ServiceBlankets = "blankets"
	ServiceWhite    = "white_clothes"
)

type AnalyticsService interface {
	Summary(ctx context.Context, days, top int) (*models.Summary, error)
}

type analyticsService struct {
	analytics repository.AnalyticsRepository
	orders    repository.OrderRepository
	rates     pricing.Rates
}

func NewAnalyticsService(analytics repository.AnalyticsRepository, orders repository.OrderRepository, rates pricing.Rates) AnalyticsService {
	return &analyticsService{
		analytics: analytics,
		orders:    orders,
		rates:     rates,
	}
}

// Summary aggregates the whole order book. Service revenue is priced at the current rates.
func (s *analyticsService) Summary(ctx context.Context, days, top int) (*models.Summary, error) {
	if days <= 0 {
		days = DefaultSummaryDays
	}
	if top <= 0 {
		top = DefaultTopCustomers
	}

	totals, err := s.analytics.Totals(ctx)
	if err != nil {
		return nil, err
	}
	daily, err := s.analytics.DailyRevenue(ctx, days)
	if err != nil {
		return nil, err
	}
	quantities, err := s.analytics.ServiceQuantities(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.analytics.TopCustomers(ctx, top)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.List(ctx, models.OrderFilter{Limit: RecentOrdersCount})
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if totals.Orders > 0 {
		average = totals.Revenue.Div(decimal.NewFromInt(totals.Orders)).Round(2)
	}

	white := decimal.NewFromInt(quantities.WhitePieces)
	return &models.Summary{
		TotalOrders:       totals.Orders,
		TotalRevenue:      totals.Revenue,
		AverageOrderValue: average,
		UniqueCustomers:   totals.UniqueCustomers,
		DailyRevenue:      daily,
		ServiceRevenue: []models.ServiceRevenue{
			{Service: ServiceRegular, Quantity: quantities.RegularKg, Revenue: quantities.RegularKg.Mul(s.rates.RegularPerKg).Round(2)},
			{Service: ServiceBlankets, Quantity: quantities.BlanketsKg, Revenue: quantities.BlanketsKg.Mul(s.rates.BlanketsPerKg).Round(2)},
			{Service: ServiceWhite, Quantity: white, Revenue: white.Mul(s.rates.WhitePerPiece).Round(2)},
		},
		TopCustomers: customers,
		RecentOrders: recent,
	}, nil
}
