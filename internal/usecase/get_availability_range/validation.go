package get_availability_range

import (
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookID <= 0 {
		return fmt.Errorf("%w: bookID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	days := int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
	if days > domain.MaxRangeQueryDays {
		return fmt.Errorf("%w: %d days requested, limit is %d", ErrRangeTooWide, days, domain.MaxRangeQueryDays)
	}

	return nil
}
