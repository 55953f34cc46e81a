package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	plain := errors.New("syntax error")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"pgx unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "orders_receipt_number_key"}, apperrors.ErrConflict},
		{"pq unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), apperrors.ErrConflict},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, apperrors.ErrConflict},
		{"bad connection", driver.ErrBadConn, apperrors.ErrStoreUnavailable},
		{"network failure", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, apperrors.ErrStoreUnavailable},
		{"deadline", context.DeadlineExceeded, apperrors.ErrStoreUnavailable},
		{"other error", plain, plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err), tt.target)
		})
	}

	assert.NoError(t, translateError(nil))
	assert.False(t, errors.Is(translateError(&pgconn.PgError{Code: "23503"}), apperrors.ErrConflict))
}
