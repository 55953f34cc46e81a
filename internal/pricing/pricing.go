// Package pricing turns service quantities into a bill.
package pricing

import (
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/shopspring/decimal"
)

type Rates struct {
	RegularPerKg  decimal.Decimal `json:"regular_clothes_per_kg"`
	BlanketsPerKg decimal.Decimal `json:"blankets_per_kg"`
	WhitePerPiece decimal.Decimal `json:"white_clothes_per_piece"`
}

func DefaultRates() Rates {
	return Rates{
		RegularPerKg:  decimal.NewFromInt(50),
		BlanketsPerKg: decimal.NewFromInt(100),
		WhitePerPiece: decimal.NewFromInt(40),
	}
}

type Calculator struct {
	rates Rates
}

func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

func (c *Calculator) Rates() Rates {
	return c.rates
}

// Calculate is exact; callers round when storing or printing.
// Negative quantities are not rejected here.
func (c *Calculator) Calculate(regularKg, blanketsKg decimal.Decimal, whitePieces int64) models.Bill {
	regular := regularKg.Mul(c.rates.RegularPerKg)
	blankets := blanketsKg.Mul(c.rates.BlanketsPerKg)
	white := decimal.NewFromInt(whitePieces).Mul(c.rates.WhitePerPiece)

	return models.Bill{
		RegularCost:  regular,
		BlanketsCost: blankets,
		WhiteCost:    white,
		Total:        regular.Add(blankets).Add(white),
	}
}
