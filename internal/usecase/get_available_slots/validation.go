package get_available_slots

import (
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookID <= 0 {
		return fmt.Errorf("%w: bookID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes > domain.MaxAppointmentDurationMinutes {
		return fmt.Errorf("%w: durationMinutes exceeds %d",
			ErrInvalidInput, domain.MaxAppointmentDurationMinutes)
	}

	return nil
}
