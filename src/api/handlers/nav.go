package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fundserver/src/schemas"
	"fundserver/src/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) PublishNAV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.PublishNAVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	rec, err := h.Controller.PublishNAV(ctx, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, rec, http.StatusCreated)
}

func (h *Handler) GetCurrentNAV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	current, err := h.Controller.CurrentNAV(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, current, http.StatusOK)
}

func (h *Handler) ListNAV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := h.Controller.ListNAV(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, records, http.StatusOK)
}

func (h *Handler) DeleteNAV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if id == "" {
		h.HandleErrors(w, utils.BadRequest("missing id URL parameter"))
		return
	}

	if err := h.Controller.DeleteNAV(ctx, id); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, map[string]string{"status": "deleted"}, http.StatusOK)
}
