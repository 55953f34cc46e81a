package handlers

import (
	"net/http"
)

func (h *Handler) GetPricing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newRatesResponse(h.rates))
}

// Bill quotes quantities without saving anything.
func (h *Handler) Bill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}

	bill, err := h.orderService.Quote(req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBillResponse(bill))
}
