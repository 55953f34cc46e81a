package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type Order struct {
	ID            int64           `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	ReceiptNumber *string         `json:"receipt_number,omitempty" db:"receipt_number" gorm:"size:32;uniqueIndex"`
	CustomerName  string          `json:"customer_name" db:"customer_name" gorm:"size:255;not null"`
	MobileNumber  string          `json:"mobile_number,omitempty" db:"mobile_number" gorm:"size:20"`
	OrderDate     time.Time       `json:"order_date" db:"order_date" gorm:"type:date;not null"`
	RegularKg     decimal.Decimal `json:"regular_clothes_kg" db:"regular_clothes_kg" gorm:"column:regular_clothes_kg;type:decimal(5,2);not null;default:0"`
	BlanketsKg    decimal.Decimal `json:"blankets_kg" db:"blankets_kg" gorm:"column:blankets_kg;type:decimal(5,2);not null;default:0"`
	WhitePieces   int64           `json:"white_clothes_pieces" db:"white_clothes_pieces" gorm:"column:white_clothes_pieces;not null;default:0"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at" gorm:"autoCreateTime;index"`
}

// OrderInput carries the raw, caller-authored fields of an order. The total is never part of it.
type OrderInput struct {
	CustomerName string
	MobileNumber string
	OrderDate    *time.Time
	RegularKg    decimal.Decimal
	BlanketsKg   decimal.Decimal
	WhitePieces  int64
}

type Bill struct {
	RegularCost  decimal.Decimal `json:"regular_cost"`
	BlanketsCost decimal.Decimal `json:"blankets_cost"`
	WhiteCost    decimal.Decimal `json:"white_cost"`
	Total        decimal.Decimal `json:"total"`
}

// Rounded returns the bill with every amount rounded to two decimals, the storage precision.
func (b Bill) Rounded() Bill {
	return Bill{
		RegularCost:  b.RegularCost.Round(2),
		BlanketsCost: b.BlanketsCost.Round(2),
		WhiteCost:    b.WhiteCost.Round(2),
		Total:        b.Total.Round(2),
	}
}

type OrderFilter struct {
	Name      string
	Date      *time.Time
	MinAmount *decimal.Decimal
	Limit     int
}

// ReceiptCounter holds the last receipt sequence issued for a calendar day.
type ReceiptCounter struct {
	Day     time.Time `gorm:"primaryKey;type:date"`
	LastSeq int       `gorm:"not null"`
}
