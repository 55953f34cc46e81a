package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	service_mocks "github.com/a2sh3r/expresswash/internal/mocks/service_mocks"
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/a2sh3r/expresswash/internal/pricing"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type mocks struct {
	orders    *service_mocks.MockOrderService
	analytics *service_mocks.MockAnalyticsService
	auth      *service_mocks.MockAuthService
}

// newTestServer wires the router without a key, so order routes are open and responses unsigned.
func newTestServer(t *testing.T) (http.Handler, mocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mocks{
		orders:    service_mocks.NewMockOrderService(ctrl),
		analytics: service_mocks.NewMockAnalyticsService(ctrl),
		auth:      service_mocks.NewMockAuthService(ctrl),
	}
	h := NewHandler(m.orders, m.analytics, m.auth, pricing.DefaultRates(), nil)
	return NewRouter(h, "", nil), m
}

func doRequest(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}

func sampleOrder() *models.Order {
	receipt := "RW-20240501-0001"
	return &models.Order{
		ID:            7,
		ReceiptNumber: &receipt,
		CustomerName:  "Asha",
		OrderDate:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		RegularKg:     decimal.RequireFromString("2"),
		BlanketsKg:    decimal.RequireFromString("1"),
		WhitePieces:   3,
		TotalAmount:   decimal.RequireFromString("320"),
		CreatedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

type failingStore struct{ err error }

func (s failingStore) PingContext(context.Context) error { return s.err }
