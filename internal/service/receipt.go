package service

import (
	"context"
	"fmt"
	"time"

	"github.com/a2sh3r/expresswash/internal/config"
	"github.com/a2sh3r/expresswash/internal/repository"
	"github.com/a2sh3r/expresswash/internal/utils"
)

// ReceiptGenerator mints RW-YYYYMMDD-NNNN receipt numbers for a calendar day.
type ReceiptGenerator interface {
	Next(ctx context.Context, day time.Time) (string, error)
}

// NewReceiptGenerator returns the generator for strategy. Unknown strategies fall back to the counter.
func NewReceiptGenerator(strategy string, repo repository.ReceiptRepository) ReceiptGenerator {
	if strategy == config.ReceiptStrategyScan {
		return &scanReceipts{repo: repo}
	}
	return &counterReceipts{repo: repo}
}

type counterReceipts struct {
	repo repository.ReceiptRepository
}

func (g *counterReceipts) Next(ctx context.Context, day time.Time) (string, error) {
	seq, err := g.repo.NextReceiptSequence(ctx, day)
	if err != nil {
		return "", fmt.Errorf("next receipt sequence: %w", err)
	}
	return utils.FormatReceiptNumber(day, seq), nil
}

// scanReceipts reads the day's highest receipt and adds one. Two callers can read the same
// value, so the insert may fail with ErrConflict and must be retried.
type scanReceipts struct {
	repo repository.ReceiptRepository
}

func (g *scanReceipts) Next(ctx context.Context, day time.Time) (string, error) {
	last, err := g.repo.LastReceiptNumber(ctx, utils.ReceiptPrefix(day))
	if err != nil {
		return "", fmt.Errorf("last receipt number: %w", err)
	}
	if last == "" {
		return utils.FormatReceiptNumber(day, 1), nil
	}

	seq, err := utils.ParseReceiptSequence(last)
	if err != nil {
		return "", err
	}
	return utils.FormatReceiptNumber(day, seq+1), nil
}
