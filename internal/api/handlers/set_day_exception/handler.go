package set_day_exception

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/service/schedule"
	"github.com/needleworks/INK-BookingService/internal/service/schedule/models"
)

const (
	msgInvalidBookID      = "некорректный ID книги записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "книга записи не найдена"
)

// SetExceptionBody HTTP request model; дата приходит в URL
type SetExceptionBody struct {
	Closed    bool    `json:"closed"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

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

// Handle PUT /api/v1/books/{bookId}/exceptions/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookID, err := strconv.ParseInt(vars["bookId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /books/{id}/exceptions/{date} - Invalid book ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookID)
		return
	}

	var body SetExceptionBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PUT /books/{id}/exceptions/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.SetException(r.Context(), &models.SetExceptionRequest{
		BookID:    bookID,
		Date:      vars["date"],
		Closed:    body.Closed,
		OpenTime:  body.OpenTime,
		CloseTime: body.CloseTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBookNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /books/{id}/exceptions/{date} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /books/{id}/exceptions/{date} - Failed: book_id=%d, error=%v", bookID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
