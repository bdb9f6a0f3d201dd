package list_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/api/middleware"
	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/internal/service/bookings"
	"github.com/needleworks/INK-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidQuery = "некорректные параметры запроса"
	msgUnauthorized = "пользователь не определен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings?bookId=&startDate=&endDate=&status=&includeTerminal=
// Клиент всегда видит только свои заявки, фильтры сужают выборку мастера
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	req := &models.ListBookingsRequest{
		ActorID:   actorID,
		ActorRole: middleware.UserRole(r.Context()),
	}

	query := r.URL.Query()
	if v := query.Get("bookId"); v != "" {
		bookID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.BookID = &bookID
	}
	if v := query.Get("requesterId"); v != "" {
		requesterID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.RequesterID = &requesterID
	}
	if v := query.Get("startDate"); v != "" {
		start, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.StartDate = &start
	}
	if v := query.Get("endDate"); v != "" {
		end, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		req.EndDate = &end
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	req.IncludeTerminal = query.Get("includeTerminal") == "true"

	resp, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid filter from user=%d: %v", actorID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /bookings - Failed for user=%d: %v", actorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
