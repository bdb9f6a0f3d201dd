package claim_flash

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	"github.com/needleworks/INK-BookingService/internal/api/middleware"
	"github.com/needleworks/INK-BookingService/internal/service/bookings/models"
	claimUC "github.com/needleworks/INK-BookingService/internal/usecase/claim_flash"
)

const (
	msgInvalidPieceID     = "некорректный ID дизайна"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgPieceNotFound      = "дизайн не найден"
	msgSizeNotFound       = "у дизайна нет такого размера"
	msgBookNotFound       = "книга записи не найдена"
	msgAlreadyClaimed     = "дизайн уже забронирован"
	msgSlotTaken          = "выбранное время уже занято"
	msgUnauthorized       = "пользователь не определен"

	codeSlotTaken      = "SLOT_TAKEN"
	codeAlreadyClaimed = "ALREADY_CLAIMED"
)

type Handler struct {
	useCase ClaimFlashUseCase
	logger  Logger
}

func NewHandler(useCase ClaimFlashUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/flash/{pieceId}/claim
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	pieceID, err := strconv.ParseInt(mux.Vars(r)["pieceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /flash/{id}/claim - Invalid piece ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPieceID)
		return
	}

	var req ClaimFlashRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /flash/{id}/claim - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(pieceID, requesterID)
	if err != nil {
		h.logger.Warn("POST /flash/{id}/claim - Invalid payload: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		var slotTaken *claimUC.SlotTakenError

		switch {
		case errors.Is(err, claimUC.ErrPieceNotFound):
			handlers.RespondNotFound(w, msgPieceNotFound)

		case errors.Is(err, claimUC.ErrSizeNotFound):
			handlers.RespondBadRequest(w, msgSizeNotFound)

		case errors.Is(err, claimUC.ErrBookNotFound):
			handlers.RespondBadRequest(w, msgBookNotFound)

		case errors.Is(err, claimUC.ErrAlreadyClaimed):
			// Дизайн ушёл - альтернативное время не предлагается
			h.logger.Info("POST /flash/{id}/claim - Already claimed: piece_id=%d, user_id=%d",
				pieceID, requesterID)
			handlers.RespondConflict(w, msgAlreadyClaimed, codeAlreadyClaimed, nil)

		case errors.As(err, &slotTaken):
			h.logger.Info("POST /flash/{id}/claim - Slot taken: piece_id=%d, user_id=%d",
				pieceID, requesterID)
			handlers.RespondConflict(w, msgSlotTaken, codeSlotTaken,
				handlers.FromDomainSlot(slotTaken.Alternative))

		case errors.Is(err, claimUC.ErrInvalidInput):
			h.logger.Warn("POST /flash/{id}/claim - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /flash/{id}/claim - Failed: piece_id=%d, error=%v", pieceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /flash/{id}/claim - Booking %d created for piece %d by user=%d",
		resp.Booking.ID, pieceID, requesterID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(resp.Booking))
}
