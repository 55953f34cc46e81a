package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/export"
	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/a2sh3r/expresswash/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func orderID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidRequest
	}
	return id, nil
}

// parseFilter reads name, date, min_amount and limit from the query string.
func parseFilter(r *http.Request) (models.OrderFilter, error) {
	q := r.URL.Query()
	filter := models.OrderFilter{Name: strings.TrimSpace(q.Get("name"))}
	verr := &apperrors.ValidationError{}

	if raw := q.Get("date"); raw != "" {
		d, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			verr.Add("date", "must be a date in YYYY-MM-DD format")
		} else {
			filter.Date = &d
		}
	}
	if raw := q.Get("min_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			verr.Add("min_amount", "must be a number")
		} else {
			filter.MinAmount = &amount
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			verr.Add("limit", "must be a non-negative integer")
		} else {
			filter.Limit = limit
		}
	}
	return filter, verr.OrNil()
}

func (h *Handler) decodeOrder(w http.ResponseWriter, r *http.Request) (models.OrderInput, error) {
	var req orderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return models.OrderInput{}, err
	}
	if err := h.validateStruct(req); err != nil {
		return models.OrderInput{}, err
	}
	return req.input(), nil
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeOrder(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orderService.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/orders/%d", order.ID))
	writeJSON(w, http.StatusCreated, newOrderResponse(*order))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := h.orderService.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponses(orders))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(*order))
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	input, err := h.decodeOrder(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.orderService.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(*order))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	contentType := export.ContentType(format)
	if contentType == "" {
		writeError(w, r, apperrors.ErrInvalidRequest)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orders, err := h.orderService.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("orders-%s.%s", time.Now().Format("20060102"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, format, orders); err != nil {
		logger.Log.Error("failed to write export", zap.String("format", format), zap.Error(err))
	}
}
