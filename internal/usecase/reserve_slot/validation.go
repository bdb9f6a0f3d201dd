package reserve_slot

import (
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

func (uc *UseCase) validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if req.BookID <= 0 {
		return fmt.Errorf("book id must be positive, got %d", req.BookID)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("invalid start time: %v", err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("invalid end time: %v", err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("start time %s must be before end time %s", req.StartTime, req.EndTime)
	}

	startMin, _ := req.StartTime.Minutes()
	endMin, _ := req.EndTime.Minutes()
	duration := endMin - startMin
	if req.BookingID != nil {
		if duration < domain.MinAppointmentDurationMinutes || duration > domain.MaxAppointmentDurationMinutes {
			return fmt.Errorf("appointment duration must be between %d and %d minutes, got %d",
				domain.MinAppointmentDurationMinutes, domain.MaxAppointmentDurationMinutes, duration)
		}
	}
	if req.BookingID != nil && *req.BookingID <= 0 {
		return fmt.Errorf("booking id must be positive, got %d", *req.BookingID)
	}

	return nil
}
