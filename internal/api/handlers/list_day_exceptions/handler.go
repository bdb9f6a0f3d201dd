package list_day_exceptions

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
	msgInvalidQuery  = "некорректные параметры периода"
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

// Handle GET /api/v1/books/{bookId}/exceptions?start=2026-03-01&end=2026-03-31
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(mux.Vars(r)["bookId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /books/{id}/exceptions - Invalid book ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookID)
		return
	}

	query := r.URL.Query()
	resp, err := h.service.ListExceptions(r.Context(), bookID, query.Get("start"), query.Get("end"))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /books/{id}/exceptions - Failed: book_id=%d, error=%v", bookID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
