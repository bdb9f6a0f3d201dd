package delete_manual_block

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/service/schedule"
)

const (
	msgInvalidBookID  = "некорректный ID книги записи"
	msgInvalidBlockID = "некорректный ID блока"
	msgNotFound       = "блок не найден"
	msgNotManual      = "блок записи освобождается только отменой заявки"
	msgInvalidQuery   = "некорректные параметры запроса"
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

// Handle DELETE /api/v1/books/{bookId}/blocks/{blockId}?date=2026-03-14
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookID, err := strconv.ParseInt(vars["bookId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /books/{id}/blocks/{blockId} - Invalid book ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookID)
		return
	}
	blockID, err := strconv.ParseInt(vars["blockId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /books/{id}/blocks/{blockId} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	err = h.service.DeleteManualBlock(r.Context(), bookID, blockID, r.URL.Query().Get("date"))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlockNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrBlockNotManual):
			h.logger.Warn("DELETE /books/{id}/blocks/{blockId} - Not a manual block: block_id=%d", blockID)
			handlers.RespondUnprocessable(w, msgNotManual)

		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("DELETE /books/{id}/blocks/{blockId} - Failed: block_id=%d, error=%v", blockID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
