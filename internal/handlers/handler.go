package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
	"github.com/a2sh3r/expresswash/internal/logger"
	"github.com/a2sh3r/expresswash/internal/middleware"
	"github.com/a2sh3r/expresswash/internal/pricing"
	"github.com/a2sh3r/expresswash/internal/service"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	healthTimeout = 2 * time.Second
	// maxBodyBytes caps JSON request bodies.
	maxBodyBytes = 1 << 20
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	orderService     service.OrderService
	analyticsService service.AnalyticsService
	authService      service.AuthService
	rates            pricing.Rates
	store            Pinger
	validate         *validator.Validate
}

func NewHandler(
	orderService service.OrderService,
	analyticsService service.AnalyticsService,
	authService service.AuthService,
	rates pricing.Rates,
	store Pinger,
) *Handler {
	return &Handler{
		orderService:     orderService,
		analyticsService: analyticsService,
		authService:      authService,
		rates:            rates,
		store:            store,
		validate:         newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the DTO tags and reports failures as an apperrors.ValidationError.
func (h *Handler) validateStruct(dto any) error {
	if h.validate == nil {
		h.validate = newValidator()
	}
	err := h.validate.Struct(dto)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &apperrors.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), describe(fe))
	}
	return verr.OrNil()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must not be negative"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}

type errorResponse struct {
	Error  string                 `json:"error"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response json", zap.Error(err))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.ErrPayloadTooLarge
		}
		return apperrors.ErrInvalidRequest
	}
	return nil
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, apperrors.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, apperrors.ErrPayloadTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: apperrors.ErrPayloadTooLarge.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, apperrors.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "order not found"})
	case errors.Is(err, apperrors.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "order conflicts with an existing one"})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		logger.Log.Warn("store unavailable", zap.String("request_id", middleware.GetRequestID(r.Context())), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
	default:
		logger.Log.Error("request failed", zap.String("request_id", middleware.GetRequestID(r.Context())), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: apperrors.ErrInternalServer.Error()})
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if h.store == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	if err := h.store.PingContext(ctx); err != nil {
		logger.Log.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
