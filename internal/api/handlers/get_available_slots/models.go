package get_available_slots

import (
	"github.com/needleworks/INK-BookingService/internal/api/handlers"
	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	BookID          int64                   `json:"bookId"`
	Date            string                  `json:"date"`
	DurationMinutes int                     `json:"durationMinutes"`
	Slots           []*handlers.SlotPayload `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ usecase в HTTP response
func FromUseCaseResponse(resp *availabilityUC.Response, date string) *SlotsResponse {
	out := &SlotsResponse{
		BookID:          resp.BookID,
		Date:            date,
		DurationMinutes: resp.DurationMinutes,
		Slots:           make([]*handlers.SlotPayload, 0, len(resp.Slots)),
	}
	for i := range resp.Slots {
		out.Slots = append(out.Slots, handlers.FromDomainSlot(&resp.Slots[i]))
	}
	return out
}
