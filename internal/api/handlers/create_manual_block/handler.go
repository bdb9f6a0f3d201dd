package create_manual_block

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/service/schedule"
	"github.com/needleworks/INK-BookingService/internal/service/schedule/models"
	"github.com/needleworks/INK-BookingService/internal/usecase/reserve_slot"
)

const (
	msgInvalidBookID      = "некорректный ID книги записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookNotFound       = "книга записи не найдена"
	msgSlotTaken          = "интервал пересекается с существующим блоком"

	codeSlotTaken = "SLOT_TAKEN"
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

// Handle POST /api/v1/books/{bookId}/blocks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(mux.Vars(r)["bookId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /books/{id}/blocks - Invalid book ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookID)
		return
	}

	var req models.CreateManualBlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /books/{id}/blocks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.BookID = bookID

	resp, err := h.service.CreateManualBlock(r.Context(), &req)
	if err != nil {
		var slotTaken *reserve_slot.SlotTakenError

		switch {
		case errors.Is(err, reserve_slot.ErrBookNotFound):
			handlers.RespondNotFound(w, msgBookNotFound)

		case errors.As(err, &slotTaken):
			h.logger.Info("POST /books/{id}/blocks - Slot taken: book_id=%d", bookID)
			handlers.RespondConflict(w, msgSlotTaken, codeSlotTaken,
				handlers.FromDomainSlot(slotTaken.Alternative))

		case errors.Is(err, schedule.ErrInvalidInput), errors.Is(err, reserve_slot.ErrInvalidInput):
			h.logger.Warn("POST /books/{id}/blocks - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /books/{id}/blocks - Failed: book_id=%d, error=%v", bookID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, resp)
}
