package get_flash_piece

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/service/flash"
)

const (
	msgInvalidPieceID = "некорректный ID дизайна"
	msgNotFound       = "дизайн не найден"
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

// Handle GET /api/v1/flash/{pieceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	pieceID, err := strconv.ParseInt(mux.Vars(r)["pieceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /flash/{id} - Invalid piece ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPieceID)
		return
	}

	resp, err := h.service.GetByID(r.Context(), pieceID)
	if err != nil {
		switch {
		case errors.Is(err, flash.ErrPieceNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /flash/{id} - Failed: piece_id=%d, error=%v", pieceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
