package apply_payment_event

import (
	"errors"
	"net/http"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	paymentUC "github.com/needleworks/INK-BookingService/internal/usecase/apply_payment_event"
	transitionUC "github.com/needleworks/INK-BookingService/internal/usecase/transition_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "заявка не найдена"
	msgIllegalTransition  = "заявка не ожидает этого платежа"
)

type Handler struct {
	useCase ApplyPaymentEventUseCase
	logger  Logger
}

func NewHandler(useCase ApplyPaymentEventUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/events
// duplicate и stale - не ошибки: провайдер получает 200 и перестаёт
// ретраить доставку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PaymentEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, paymentUC.ErrBookingNotFound):
			h.logger.Warn("POST /payments/events - Booking not found: event_id=%s, booking_id=%d",
				req.EventID, req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, transitionUC.ErrIllegalTransition):
			h.logger.Warn("POST /payments/events - Illegal transition: event_id=%s, booking_id=%d: %v",
				req.EventID, req.BookingID, err)
			handlers.RespondUnprocessable(w, msgIllegalTransition)

		case errors.Is(err, paymentUC.ErrInvalidInput):
			h.logger.Warn("POST /payments/events - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/events - Failed: event_id=%s, error=%v", req.EventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PaymentEventResponse{Result: string(resp.Result)})
}
