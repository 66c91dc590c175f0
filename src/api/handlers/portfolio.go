package handlers

import (
	"context"
	"net/http"
	"time"
)

func (h *Handler) GetPortfolioTotals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	totals, err := h.Controller.PortfolioTotals(ctx, r.URL.Query().Get("view"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, totals, http.StatusOK)
}

func (h *Handler) RecomputeTotals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	totals, err := h.Controller.RecomputeTotals(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, totals, http.StatusOK)
}
