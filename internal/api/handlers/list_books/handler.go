package list_books

import (
	"net/http"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/books?active=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	resp, err := h.service.ListBooks(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("GET /books - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
