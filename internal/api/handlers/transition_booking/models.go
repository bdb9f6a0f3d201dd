package transition_booking

import (
	"fmt"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	transitionUC "github.com/needleworks/INK-BookingService/internal/usecase/transition_booking"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	TargetStatus string `json:"targetStatus"`

	// approved
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	DepositAmount   *float64 `json:"depositAmount,omitempty"`
	TotalAmount     *float64 `json:"totalAmount,omitempty"`

	// info_requested
	Note *string `json:"note,omitempty"`

	// declined
	DeclineReason *string `json:"declineReason,omitempty"`

	// awaiting_deposit
	BookID    *int64  `json:"bookId,omitempty"`
	Date      *string `json:"date,omitempty"` // "2026-03-14"
	StartTime *string `json:"startTime,omitempty"`

	// cancelled
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *TransitionRequest) ToUseCaseRequest(bookingID, actorID int64, role domain.Role) (*transitionUC.Request, error) {
	payload := transitionUC.Payload{
		DurationMinutes:    r.DurationMinutes,
		DepositAmount:      r.DepositAmount,
		TotalAmount:        r.TotalAmount,
		Note:               r.Note,
		DeclineReason:      r.DeclineReason,
		BookID:             r.BookID,
		CancellationReason: r.CancellationReason,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", *r.Date)
		}
		payload.Date = &date
	}
	if r.StartTime != nil {
		start := types.TimeString(*r.StartTime)
		if err := start.Validate(); err != nil {
			return nil, fmt.Errorf("invalid start time %q", *r.StartTime)
		}
		payload.StartTime = &start
	}

	return &transitionUC.Request{
		BookingID: bookingID,
		Target:    domain.BookingStatus(r.TargetStatus),
		ActorID:   actorID,
		ActorRole: role,
		Payload:   payload,
	}, nil
}
