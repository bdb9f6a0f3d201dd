package list_flash_pieces

import (
	"net/http"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
)

type Handler struct {
	service FlashService
	logger  Logger
}

func NewHandler(service FlashService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/flash?available=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	availableOnly := r.URL.Query().Get("available") == "true"

	resp, err := h.service.List(r.Context(), availableOnly)
	if err != nil {
		h.logger.Error("GET /flash - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
