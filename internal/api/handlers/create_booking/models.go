package create_booking

import (
	createUC "github.com/needleworks/INK-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Description    string  `json:"description"`
	Placement      *string `json:"placement,omitempty"`
	Size           *string `json:"size,omitempty"`
	PreferredDates *string `json:"preferredDates,omitempty"`
	MedicalNotes   *string `json:"medicalNotes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) *createUC.Request {
	return &createUC.Request{
		RequesterID:    requesterID,
		Description:    r.Description,
		Placement:      r.Placement,
		Size:           r.Size,
		PreferredDates: r.PreferredDates,
		MedicalNotes:   r.MedicalNotes,
	}
}
