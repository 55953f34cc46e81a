package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
)

const (
	ReceiptTag       = "RW"
	ReceiptDayLayout = "20060102"
	MaxReceiptSeq    = 9999
)

func ReceiptPrefix(day time.Time) string {
	return ReceiptTag + "-" + day.Format(ReceiptDayLayout) + "-"
}

// FormatReceiptNumber renders RW-YYYYMMDD-NNNN. Sequences above 9999 keep their full width.
func FormatReceiptNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s%04d", ReceiptPrefix(day), seq)
}

func ParseReceiptSequence(number string) (int, error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != ReceiptTag || len(parts[1]) != len(ReceiptDayLayout) {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidReceipt, number)
	}
	if _, err := time.Parse(ReceiptDayLayout, parts[1]); err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidReceipt, number)
	}
	seq, err := strconv.Atoi(parts[2])
	if err != nil || seq < 1 || len(parts[2]) < 4 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidReceipt, number)
	}
	return seq, nil
}
