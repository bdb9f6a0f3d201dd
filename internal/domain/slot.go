package domain

import "github.com/needleworks/INK-BookingService/pkg/types"

// Slot свободный интервал, пригодный для бронирования
type Slot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int // Полная длина интервала в минутах
}

// Fits возвращает true, если в интервал помещается запись длительностью minutes
func (s *Slot) Fits(minutes int) bool {
	return s.DurationMinutes >= minutes
}
