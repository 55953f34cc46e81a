package handlers

import (
	"encoding/json"
	"time"

	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/a2sh3r/expresswash/internal/pricing"
	"github.com/shopspring/decimal"
)

type quantities struct {
	RegularKg   decimal.Decimal `json:"regular_clothes_kg"`
	BlanketsKg  decimal.Decimal `json:"blankets_kg"`
	WhitePieces int64           `json:"white_clothes_pieces" validate:"gte=0"`
}

type orderRequest struct {
	CustomerName string `json:"customer_name" validate:"required,max=255"`
	MobileNumber string `json:"mobile_number" validate:"omitempty,max=20"`
	OrderDate    string `json:"order_date" validate:"required,datetime=2006-01-02"`
	quantities
}

// input assumes the request already passed validation.
func (r orderRequest) input() models.OrderInput {
	in := models.OrderInput{
		CustomerName: r.CustomerName,
		MobileNumber: r.MobileNumber,
		RegularKg:    r.RegularKg,
		BlanketsKg:   r.BlanketsKg,
		WhitePieces:  r.WhitePieces,
	}
	if d, err := time.Parse(models.DateLayout, r.OrderDate); err == nil {
		in.OrderDate = &d
	}
	return in
}

type billRequest struct {
	quantities
}

// money renders an amount with two decimals as a JSON number.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

type orderResponse struct {
	ID            int64       `json:"id"`
	ReceiptNumber *string     `json:"receipt_number"`
	CustomerName  string      `json:"customer_name"`
	MobileNumber  string      `json:"mobile_number"`
	OrderDate     string      `json:"order_date"`
	RegularKg     json.Number `json:"regular_clothes_kg"`
	BlanketsKg    json.Number `json:"blankets_kg"`
	WhitePieces   int64       `json:"white_clothes_pieces"`
	TotalAmount   json.Number `json:"total_amount"`
	CreatedAt     time.Time   `json:"created_at"`
}

func newOrderResponse(o models.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		ReceiptNumber: o.ReceiptNumber,
		CustomerName:  o.CustomerName,
		MobileNumber:  o.MobileNumber,
		OrderDate:     o.OrderDate.Format(models.DateLayout),
		RegularKg:     money(o.RegularKg),
		BlanketsKg:    money(o.BlanketsKg),
		WhitePieces:   o.WhitePieces,
		TotalAmount:   money(o.TotalAmount),
		CreatedAt:     o.CreatedAt,
	}
}

func newOrderResponses(orders []models.Order) []orderResponse {
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderResponse(o))
	}
	return resp
}

type billResponse struct {
	RegularCost  json.Number `json:"regular_cost"`
	BlanketsCost json.Number `json:"blankets_cost"`
	WhiteCost    json.Number `json:"white_cost"`
	Total        json.Number `json:"total"`
}

func newBillResponse(b models.Bill) billResponse {
	return billResponse{
		RegularCost:  money(b.RegularCost),
		BlanketsCost: money(b.BlanketsCost),
		WhiteCost:    money(b.WhiteCost),
		Total:        money(b.Total),
	}
}

type ratesResponse struct {
	RegularPerKg  json.Number `json:"regular_clothes_per_kg"`
	BlanketsPerKg json.Number `json:"blankets_per_kg"`
	WhitePerPiece json.Number `json:"white_clothes_per_piece"`
}

func newRatesResponse(r pricing.Rates) ratesResponse {
	return ratesResponse{
		RegularPerKg:  money(r.RegularPerKg),
		BlanketsPerKg: money(r.BlanketsPerKg),
		WhitePerPiece: money(r.WhitePerPiece),
	}
}

type dailyRevenueResponse struct {
	Date    string      `json:"date"`
	Revenue json.Number `json:"revenue"`
	Orders  int64       `json:"orders"`
}

type serviceRevenueResponse struct {
	Service  string      `json:"service"`
	Quantity json.Number `json:"quantity"`
	Revenue  json.Number `json:"revenue"`
}

type customerRevenueResponse struct {
	CustomerName string      `json:"customer_name"`
	Revenue      json.Number `json:"revenue"`
	Orders       int64       `json:"orders"`
}

type summaryResponse struct {
	TotalOrders       int64                     `json:"total_orders"`
	TotalRevenue      json.Number               `json:"total_revenue"`
	AverageOrderValue json.Number               `json:"average_order_value"`
	UniqueCustomers   int64                     `json:"unique_customers"`
	DailyRevenue      []dailyRevenueResponse    `json:"daily_revenue"`
	ServiceRevenue    []serviceRevenueResponse  `json:"service_revenue"`
	TopCustomers      []customerRevenueResponse `json:"top_customers"`
	RecentOrders      []orderResponse           `json:"recent_orders"`
}

func newSummaryResponse(s *models.Summary) summaryResponse {
	resp := summaryResponse{
		TotalOrders:       s.TotalOrders,
		TotalRevenue:      money(s.TotalRevenue),
		AverageOrderValue: money(s.AverageOrderValue),
		UniqueCustomers:   s.UniqueCustomers,
		DailyRevenue:      make([]dailyRevenueResponse, 0, len(s.DailyRevenue)),
		ServiceRevenue:    make([]serviceRevenueResponse, 0, len(s.ServiceRevenue)),
		TopCustomers:      make([]customerRevenueResponse, 0, len(s.TopCustomers)),
		RecentOrders:      newOrderResponses(s.RecentOrders),
	}
	for _, d := range s.DailyRevenue {
		resp.DailyRevenue = append(resp.DailyRevenue, dailyRevenueResponse{
			Date:    d.Date.Format(models.DateLayout),
			Revenue: money(d.Revenue),
			Orders:  d.Orders,
		})
	}
	for _, sr := range s.ServiceRevenue {
		resp.ServiceRevenue = append(resp.ServiceRevenue, serviceRevenueResponse{
			Service:  sr.Service,
			Quantity: money(sr.Quantity),
			Revenue:  money(sr.Revenue),
		})
	}
	for _, c := range s.TopCustomers {
		resp.TopCustomers = append(resp.TopCustomers, customerRevenueResponse{
			CustomerName: c.CustomerName,
			Revenue:      money(c.Revenue),
			Orders:       c.Orders,
		})
	}
	return resp
}

func (q quantities) input() models.OrderInput {
	return models.OrderInput{
		RegularKg:   q.RegularKg,
		BlanketsKg:  q.BlanketsKg,
		WhitePieces: q.WhitePieces,
	}
}
