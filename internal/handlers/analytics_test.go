package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Summary(t *testing.T) {
	srv, m := newTestServer(t)

	m.analytics.EXPECT().Summary(gomock.Any(), 7, 3).Return(&models.Summary{
		TotalOrders:       2,
		TotalRevenue:      decimal.NewFromInt(395),
		AverageOrderValue: decimal.RequireFromString("197.5"),
		UniqueCustomers:   2,
		DailyRevenue: []models.DailyRevenue{
			{Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Revenue: decimal.NewFromInt(395), Orders: 2},
		},
		ServiceRevenue: []models.ServiceRevenue{
			{Service: "regular_clothes", Quantity: decimal.RequireFromString("3.5"), Revenue: decimal.NewFromInt(175)},
		},
		TopCustomers: []models.CustomerRevenue{{CustomerName: "Asha", Revenue: decimal.NewFromInt(320), Orders: 1}},
		RecentOrders: []models.Order{*sampleOrder()},
	}, nil)

	w := doRequest(t, srv, http.MethodGet, "/api/analytics/summary?days=7&top=3", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp summaryResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, int64(2), resp.TotalOrders)
	assert.Equal(t, "197.50", resp.AverageOrderValue.String())
	assert.Equal(t, "2024-05-01", resp.DailyRevenue[0].Date)
	assert.Equal(t, "Asha", resp.TopCustomers[0].CustomerName)
	assert.Len(t, resp.RecentOrders, 1)

	m.analytics.EXPECT().Summary(gomock.Any(), 0, 0).Return(nil, apperrors.ErrStoreUnavailable)
	w = doRequest(t, srv, http.MethodGet, "/api/analytics/summary", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/analytics/summary?days=-1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
