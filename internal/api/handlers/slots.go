package handlers

import "github.com/needleworks/INK-BookingService/internal/domain"

// FromDomainSlot конвертирует domain слот в payload API
func FromDomainSlot(s *domain.Slot) *SlotPayload {
	if s == nil {
		return nil
	}
	return &SlotPayload{
		StartTime:       s.StartTime.String(),
		EndTime:         s.EndTime.String(),
		DurationMinutes: s.DurationMinutes,
	}
}
