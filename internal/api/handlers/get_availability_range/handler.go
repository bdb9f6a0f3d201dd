package get_availability_range

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/domain"
	rangeUC "github.com/needleworks/INK-BookingService/internal/usecase/get_availability_range"
)

const (
	msgInvalidBookID   = "некорректный ID книги записи"
	msgInvalidDates    = "некорректные даты периода, ожидается YYYY-MM-DD"
	msgInvalidDuration = "некорректная длительность"
	msgRangeTooWide    = "слишком широкий период"
	msgBookNotFound    = "книга записи не найдена"
	msgInvalidRequest  = "некорректные параметры запроса"
)

// RangeResponse HTTP response model
type RangeResponse struct {
	BookID          int64           `json:"bookId"`
	DurationMinutes int             `json:"durationMinutes"`
	Days            map[string]bool `json:"days"`
}

type Handler struct {
	useCase AvailabilityRangeUseCase
	logger  Logger
}

func NewHandler(useCase AvailabilityRangeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/books/{bookId}/availability?start=2026-03-01&end=2026-03-31&duration=120
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookID, err := strconv.ParseInt(vars["bookId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /books/{id}/availability - Invalid book ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookID)
		return
	}

	query := r.URL.Query()
	start, err := time.Parse(domain.DateFormat, query.Get("start"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}
	end, err := time.Parse(domain.DateFormat, query.Get("end"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}
	duration, err := strconv.Atoi(query.Get("duration"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &rangeUC.Request{
		BookID:          bookID,
		StartDate:       start,
		EndDate:         end,
		DurationMinutes: duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, rangeUC.ErrBookNotFound):
			handlers.RespondNotFound(w, msgBookNotFound)

		case errors.Is(err, rangeUC.ErrRangeTooWide):
			h.logger.Warn("GET /books/{id}/availability - Range too wide: book_id=%d", bookID)
			handlers.RespondBadRequest(w, msgRangeTooWide)

		case errors.Is(err, rangeUC.ErrInvalidInput):
			h.logger.Warn("GET /books/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /books/{id}/availability - Failed: book_id=%d, error=%v", bookID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, RangeResponse{
		BookID:          resp.BookID,
		DurationMinutes: resp.DurationMinutes,
		Days:            resp.Days,
	})
}
