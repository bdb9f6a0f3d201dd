package create_booking

import (
	"errors"
	"net/http"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/api/middleware"
	"github.com/needleworks/INK-BookingService/internal/service/bookings/models"
	createUC "github.com/needleworks/INK-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не определен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(requesterID))
	if err != nil {
		switch {
		case errors.Is(err, createUC.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input from user=%d: %v", requesterID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking for user=%d: %v", requesterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking %d created by user=%d", resp.Booking.ID, requesterID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(resp.Booking))
}
