package transition_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/api/middleware"
	"github.com/needleworks/INK-BookingService/internal/service/bookings/models"
	"github.com/needleworks/INK-BookingService/internal/usecase/reserve_slot"
	transitionUC "github.com/needleworks/INK-BookingService/internal/usecase/transition_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID заявки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "заявка не найдена"
	msgForbidden          = "доступ запрещен"
	msgIllegalTransition  = "переход статуса недопустим"
	msgSlotTaken          = "выбранное время уже занято"
	msgUnauthorized       = "пользователь не определен"

	codeSlotTaken = "SLOT_TAKEN"
)

type Handler struct {
	useCase TransitionUseCase
	logger  Logger
}

func NewHandler(useCase TransitionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/transition
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/transition - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/transition - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(bookingID, actorID, middleware.UserRole(r.Context()))
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/transition - Invalid payload: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		var slotTaken *reserve_slot.SlotTakenError

		switch {
		case errors.Is(err, transitionUC.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, transitionUC.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/transition - Access denied: booking_id=%d, user_id=%d",
				bookingID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, transitionUC.ErrIllegalTransition):
			h.logger.Warn("POST /bookings/{id}/transition - Illegal transition: booking_id=%d, target=%s: %v",
				bookingID, req.TargetStatus, err)
			handlers.RespondUnprocessable(w, msgIllegalTransition)

		case errors.As(err, &slotTaken):
			h.logger.Info("POST /bookings/{id}/transition - Slot taken: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotTaken, codeSlotTaken,
				handlers.FromDomainSlot(slotTaken.Alternative))

		case errors.Is(err, reserve_slot.ErrBookNotFound):
			h.logger.Warn("POST /bookings/{id}/transition - Book not found: booking_id=%d: %v", bookingID, err)
			handlers.RespondBadRequest(w, "книга записи не найдена")

		case errors.Is(err, transitionUC.ErrInvalidInput), errors.Is(err, reserve_slot.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/transition - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/{id}/transition - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/transition - Booking %d moved to %s by user=%d",
		bookingID, req.TargetStatus, actorID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(resp.Booking))
}
