package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"fundserver/src/api/controllers"
	"fundserver/src/models"
	"fundserver/src/utils"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Controller controllers.IController
	Logger     *logrus.Logger
}

func NewHandler(controller controllers.IController, logger *logrus.Logger) *Handler {
	return &Handler{Controller: controller, Logger: logger}
}

func Healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status": "OK"}`))
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleErrors translates the domain error taxonomy to HTTP. Rejections
// carry the offending values so the caller can render a precise message.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var (
		validation   *models.ValidationError
		insufficient *models.InsufficientUnitsError
		notFound     *models.NotFoundError
		conflict     *models.ConflictError
		unavailable  *models.DependencyUnavailableError
		httpErr      *utils.HTTPError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		h.respond(w, nil, map[string]string{"error": "Request timed out"}, http.StatusGatewayTimeout)
	case errors.As(err, &validation):
		h.respond(w, nil, map[string]interface{}{
			"error": validation.Error(),
			"field": validation.Field,
		}, http.StatusBadRequest)
	case errors.As(err, &insufficient):
		h.respond(w, nil, map[string]interface{}{
			"error":     insufficient.Error(),
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		}, http.StatusUnprocessableEntity)
	case errors.As(err, &notFound):
		h.respond(w, nil, map[string]string{"error": notFound.Error()}, http.StatusNotFound)
	case errors.As(err, &conflict):
		h.respond(w, nil, map[string]string{"error": conflict.Error()}, http.StatusConflict)
	case errors.As(err, &unavailable):
		h.respond(w, nil, map[string]string{"error": unavailable.Error()}, http.StatusServiceUnavailable)
	case errors.As(err, &httpErr):
		h.respond(w, nil, map[string]string{"error": httpErr.Message}, httpErr.Code)
	case err != nil:
		h.Logger.WithError(err).Error("unhandled error")
		h.respond(w, nil, map[string]string{"error": "Internal Server Error"}, http.StatusInternalServerError)
	default:
		h.respond(w, nil, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
	}
}
