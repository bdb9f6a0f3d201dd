package create_booking

import "github.com/needleworks/INK-BookingService/internal/domain"

// Request заявка клиента на индивидуальный эскиз
type Request struct {
	RequesterID    int64
	Description    string
	Placement      *string
	Size           *string
	PreferredDates *string
	MedicalNotes   *string
}

// Response созданная заявка
type Response struct {
	Booking *domain.Booking
}
