package apply_payment_event

import (
	"time"

	paymentUC "github.com/needleworks/INK-BookingService/internal/usecase/apply_payment_event"
)

// PaymentEventRequest HTTP request model
// Подпись провайдера проверяет gateway до проксирования сюда
type PaymentEventRequest struct {
	EventID        string    `json:"eventId"`
	EventType      string    `json:"eventType"`
	EventCreatedAt time.Time `json:"eventCreatedAt"`
	BookingID      int64     `json:"bookingId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *PaymentEventRequest) ToUseCaseRequest() *paymentUC.Request {
	return &paymentUC.Request{
		EventID:        r.EventID,
		EventType:      r.EventType,
		EventCreatedAt: r.EventCreatedAt,
		BookingID:      r.BookingID,
	}
}

// PaymentEventResponse HTTP response model
type PaymentEventResponse struct {
	Result string `json:"result"` // applied | duplicate | stale
}
