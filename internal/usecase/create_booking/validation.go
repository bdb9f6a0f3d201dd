package create_booking

import (
	"fmt"
	"strings"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

func (uc *UseCase) validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if req.RequesterID <= 0 {
		return fmt.Errorf("requester id must be positive, got %d", req.RequesterID)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if len(req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("description exceeds %d characters", domain.MaxDescriptionLength)
	}
	if req.MedicalNotes != nil && len(*req.MedicalNotes) > domain.MaxNotesLength {
		return fmt.Errorf("medical notes exceed %d characters", domain.MaxNotesLength)
	}

	return nil
}
