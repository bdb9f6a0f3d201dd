package transition_booking

import (
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

func (uc *UseCase) validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if req.BookingID <= 0 {
		return fmt.Errorf("booking id must be positive, got %d", req.BookingID)
	}
	if req.ActorID <= 0 && req.ActorRole != domain.RoleLedger {
		return fmt.Errorf("actor id must be positive, got %d", req.ActorID)
	}

	validRole := false
	for _, r := range domain.AllRoles {
		if r == req.ActorRole {
			validRole = true
			break
		}
	}
	if !validRole {
		return fmt.Errorf("unknown actor role %q", req.ActorRole)
	}

	validStatus := false
	for _, s := range domain.AllStatuses {
		if s == req.Target {
			validStatus = true
			break
		}
	}
	if !validStatus {
		return fmt.Errorf("unknown target status %q", req.Target)
	}

	if req.Payload.StartTime != nil {
		if err := req.Payload.StartTime.Validate(); err != nil {
			return fmt.Errorf("invalid start time: %v", err)
		}
	}
	if req.Payload.DurationMinutes != nil {
		d := *req.Payload.DurationMinutes
		if d < domain.MinAppointmentDurationMinutes || d > domain.MaxAppointmentDurationMinutes {
			return fmt.Errorf("duration must be between %d and %d minutes, got %d",
				domain.MinAppointmentDurationMinutes, domain.MaxAppointmentDurationMinutes, d)
		}
	}
	if req.Payload.DepositAmount != nil && *req.Payload.DepositAmount < 0 {
		return fmt.Errorf("deposit amount must not be negative")
	}
	if req.Payload.TotalAmount != nil && *req.Payload.TotalAmount < 0 {
		return fmt.Errorf("total amount must not be negative")
	}
	if req.Payload.DepositAmount != nil && req.Payload.TotalAmount != nil &&
		*req.Payload.DepositAmount > *req.Payload.TotalAmount {
		return fmt.Errorf("deposit amount must not exceed total amount")
	}
	if req.Payload.CancellationReason != nil && len(*req.Payload.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("cancellation reason must not exceed %d characters", domain.MaxCancellationReasonLength)
	}

	return nil
}
