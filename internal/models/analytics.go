package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Totals struct {
	Orders          int64           `json:"orders"`
	Revenue         decimal.Decimal `json:"revenue"`
	UniqueCustomers int64           `json:"unique_customers"`
}

type ServiceQuantities struct {
	RegularKg   decimal.Decimal
	BlanketsKg  decimal.Decimal
	WhitePieces int64
}

type DailyRevenue struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

type ServiceRevenue struct {
	Service  string          `json:"service"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type CustomerRevenue struct {
	CustomerName string          `json:"customer_name"`
	Revenue      decimal.Decimal `json:"revenue"`
	Orders       int64           `json:"orders"`
}

type Summary struct {
	TotalOrders       int64             `json:"total_orders"`
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	AverageOrderValue decimal.Decimal   `json:"average_order_value"`
	UniqueCustomers   int64             `json:"unique_customers"`
	DailyRevenue      []DailyRevenue    `json:"daily_revenue"`
	ServiceRevenue    []ServiceRevenue  `json:"service_revenue"`
	TopCustomers      []CustomerRevenue `json:"top_customers"`
	RecentOrders      []Order           `json:"recent_orders"`
}
