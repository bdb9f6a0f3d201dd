package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/domain"
	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidBookID   = "некорректный ID книги записи"
	msgInvalidDate     = "некорректная дата, ожидается YYYY-MM-DD"
	msgInvalidDuration = "некорректная длительность"
	msgBookNotFound    = "книга записи не найдена"
	msgInvalidRequest  = "некорректные параметры запроса"
)

type Handler struct {
	useCase AvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase AvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/books/{bookId}/slots?date=2026-03-14&duration=120
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookID, err := strconv.ParseInt(vars["bookId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /books/{id}/slots - Invalid book ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /books/{id}/slots - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	duration, err := strconv.Atoi(r.URL.Query().Get("duration"))
	if err != nil {
		h.logger.Warn("GET /books/{id}/slots - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &availabilityUC.Request{
		BookID:          bookID,
		Date:            date,
		DurationMinutes: duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, availabilityUC.ErrBookNotFound):
			handlers.RespondNotFound(w, msgBookNotFound)

		case errors.Is(err, availabilityUC.ErrInvalidInput):
			h.logger.Warn("GET /books/{id}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /books/{id}/slots - Failed: book_id=%d, error=%v", bookID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp, dateStr))
}
