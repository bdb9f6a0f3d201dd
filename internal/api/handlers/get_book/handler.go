package get_book

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/service/schedule"
)

const (
	msgInvalidBookID = "некорректный ID книги записи"
	msgNotFound      = "книга записи не найдена"
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

// Handle GET /api/v1/books/{bookId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(mux.Vars(r)["bookId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /books/{id} - Invalid book ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookID)
		return
	}

	resp, err := h.service.GetBook(r.Context(), bookID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBookNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /books/{id} - Failed: book_id=%d, error=%v", bookID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
