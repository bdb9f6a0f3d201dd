package claim_flash

import (
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

func (uc *UseCase) validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if req.RequesterID <= 0 {
		return fmt.Errorf("requester id must be positive, got %d", req.RequesterID)
	}
	if req.PieceID <= 0 {
		return fmt.Errorf("piece id must be positive, got %d", req.PieceID)
	}
	if req.SizeID <= 0 {
		return fmt.Errorf("size id must be positive, got %d", req.SizeID)
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

	return nil
}

// validateDuration сверяет запрошенный интервал с длительностью
// выбранного размера: интервал должен совпадать с ней минута в минуту
func (uc *UseCase) validateDuration(req *Request, size domain.FlashSize) error {
	startMin, _ := req.StartTime.Minutes()
	endMin, _ := req.EndTime.Minutes()
	if endMin-startMin != size.DurationMinutes {
		return fmt.Errorf("interval %s-%s does not match size duration %d minutes",
			req.StartTime, req.EndTime, size.DurationMinutes)
	}
	return nil
}
