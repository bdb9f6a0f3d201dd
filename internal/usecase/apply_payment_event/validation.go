package apply_payment_event

import (
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

func (uc *UseCase) validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if req.EventID == "" {
		return fmt.Errorf("event id is required")
	}
	if req.EventType == "" {
		return fmt.Errorf("event type is required")
	}
	if req.EventCreatedAt.IsZero() {
		return fmt.Errorf("event created time is required")
	}

	// Ссылка на заявку обязательна только для типов с доменным эффектом
	switch req.EventType {
	case domain.PaymentEventDepositPaid, domain.PaymentEventRequestPaid:
		if req.BookingID <= 0 {
			return fmt.Errorf("booking id must be positive for %s, got %d", req.EventType, req.BookingID)
		}
	}

	return nil
}
