package handlers

import (
	"net/http"
	"strconv"

	"github.com/a2sh3r/expresswash/internal/apperrors"
)

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		verr := &apperrors.ValidationError{}
		verr.Add(name, "must be a non-negative integer")
		return 0, verr.OrNil()
	}
	return n, nil
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		writeError(w, r, err)
		return
	}
	top, err := queryInt(r, "top")
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.analyticsService.Summary(r.Context(), days, top)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(summary))
}
