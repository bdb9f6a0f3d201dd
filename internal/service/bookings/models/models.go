package models

import (
	"errors"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest запрос на выборку заявок
type ListBookingsRequest struct {
	ActorID         int64       `json:"actorId"`
	ActorRole       domain.Role `json:"actorRole"`
	RequesterID     *int64      `json:"requesterId,omitempty"`
	BookID          *int64      `json:"bookId,omitempty"`
	StartDate       *time.Time  `json:"startDate,omitempty"`
	EndDate         *time.Time  `json:"endDate,omitempty"`
	Status          *string     `json:"status,omitempty"`
	IncludeTerminal bool        `json:"includeTerminal,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		RequesterID:     r.RequesterID,
		BookID:          r.BookID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeTerminal: r.IncludeTerminal,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateContentRequest запрос на изменение содержимого заявки
// Доступно клиенту, пока заявка не рассмотрена мастером
type UpdateContentRequest struct {
	BookingID      int64   `json:"bookingId"`
	RequesterID    int64   `json:"requesterId"`
	Description    string  `json:"description"`
	Placement      *string `json:"placement,omitempty"`
	Size           *string `json:"size,omitempty"`
	PreferredDates *string `json:"preferredDates,omitempty"`
	MedicalNotes   *string `json:"medicalNotes,omitempty"`
}

// Response модели

// BookingResponse ответ с данными заявки
type BookingResponse struct {
	ID          int64  `json:"id"`
	RequesterID int64  `json:"requesterId"`
	Type        string `json:"type"`
	Status      string `json:"status"`

	Description    string  `json:"description"`
	Placement      *string `json:"placement,omitempty"`
	Size           *string `json:"size,omitempty"`
	PreferredDates *string `json:"preferredDates,omitempty"`
	MedicalNotes   *string `json:"medicalNotes,omitempty"`

	BookID       *int64 `json:"bookId,omitempty"`
	FlashPieceID *int64 `json:"flashPieceId,omitempty"`
	FlashSizeID  *int64 `json:"flashSizeId,omitempty"`

	AppointmentDate *string `json:"appointmentDate,omitempty"` // "2026-03-14"
	StartTime       *string `json:"startTime,omitempty"`       // "10:00"
	EndTime         *string `json:"endTime,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`

	DepositAmount  *float64 `json:"depositAmount,omitempty"`
	TotalAmount    *float64 `json:"totalAmount,omitempty"`
	DepositPaidAt  *string  `json:"depositPaidAt,omitempty"`
	FinalPaymentAt *string  `json:"finalPaymentAt,omitempty"`

	DeclineReason      *string `json:"declineReason,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	Notes              *string `json:"notes,omitempty"`

	// Доступные клиенту действия над заявкой в текущем статусе
	Editable  bool `json:"editable"`
	CanCancel bool `json:"canCancel"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// BookingListResponse ответ со списком заявок
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBooking конвертирует domain заявку в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID,
		RequesterID:        b.RequesterID,
		Type:               string(b.Type),
		Status:             string(b.Status),
		Description:        b.Description,
		Placement:          b.Placement,
		Size:               b.Size,
		PreferredDates:     b.PreferredDates,
		MedicalNotes:       b.MedicalNotes,
		BookID:             b.BookID,
		FlashPieceID:       b.FlashPieceID,
		FlashSizeID:        b.FlashSizeID,
		DurationMinutes:    b.DurationMinutes,
		DepositAmount:      b.DepositAmount,
		TotalAmount:        b.TotalAmount,
		DeclineReason:      b.DeclineReason,
		CancellationReason: b.CancellationReason,
		Notes:              b.Notes,
		Editable:           b.IsEditable(),
		CanCancel:          b.CanBeCancelled(),
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}

	if b.AppointmentDate != nil {
		date := b.AppointmentDate.Format(domain.DateFormat)
		resp.AppointmentDate = &date
	}
	if b.StartTime != nil {
		start := b.StartTime.String()
		resp.StartTime = &start
	}
	if b.EndTime != nil {
		end := b.EndTime.String()
		resp.EndTime = &end
	}
	if b.DepositPaidAt != nil {
		paid := b.DepositPaidAt.Format(time.RFC3339)
		resp.DepositPaidAt = &paid
	}
	if b.FinalPaymentAt != nil {
		paid := b.FinalPaymentAt.Format(time.RFC3339)
		resp.FinalPaymentAt = &paid
	}

	return resp
}

// FromDomainBookings конвертирует слайс domain заявок в response
func FromDomainBookings(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]*BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	for _, s := range domain.AllStatuses {
		if string(s) == status {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}
