package update_booking

import (
	"github.com/needleworks/INK-BookingService/internal/service/bookings/models"
)

// UpdateBookingRequest HTTP request model
type UpdateBookingRequest struct {
	Description    string  `json:"description"`
	Placement      *string `json:"placement,omitempty"`
	Size           *string `json:"size,omitempty"`
	PreferredDates *string `json:"preferredDates,omitempty"`
	MedicalNotes   *string `json:"medicalNotes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateBookingRequest) ToServiceRequest(bookingID, requesterID int64) *models.UpdateContentRequest {
	return &models.UpdateContentRequest{
		BookingID:      bookingID,
		RequesterID:    requesterID,
		Description:    r.Description,
		Placement:      r.Placement,
		Size:           r.Size,
		PreferredDates: r.PreferredDates,
		MedicalNotes:   r.MedicalNotes,
	}
}
