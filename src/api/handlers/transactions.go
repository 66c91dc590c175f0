package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fundserver/src/repositories"
	"fundserver/src/schemas"
	"fundserver/src/utils"
)

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := repositories.TransactionFilter{
		UserID: r.URL.Query().Get("userId"),
		Type:   r.URL.Query().Get("type"),
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(schemas.ShortDashDateLayout, fromStr)
		if err != nil {
			h.HandleErrors(w, utils.UnprocessableEntity(err.Error()))
			return
		}
		filter.From = from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(schemas.ShortDashDateLayout, toStr)
		if err != nil {
			h.HandleErrors(w, utils.UnprocessableEntity(err.Error()))
			return
		}
		// Inclusive upper bound: include everything on the "to" day.
		filter.To = to.Add(24*time.Hour - time.Nanosecond)
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	sortAsc := r.URL.Query().Get("sort") == "asc"

	list, err := h.Controller.ListTransactions(ctx, filter, page, pageSize, sortAsc)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, list, http.StatusOK)
}
