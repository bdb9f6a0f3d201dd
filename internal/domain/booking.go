package domain

import (
	"time"

	"github.com/needleworks/INK-BookingService/pkg/types"
)

// BookingStatus статус заявки на бронирование
type BookingStatus string

const (
	StatusPending         BookingStatus = "pending"
	StatusInfoRequested   BookingStatus = "info_requested"
	StatusApproved        BookingStatus = "approved"
	StatusAwaitingDeposit BookingStatus = "awaiting_deposit"
	StatusConfirmed       BookingStatus = "confirmed"
	StatusCompleted       BookingStatus = "completed"
	StatusDeclined        BookingStatus = "declined"
	StatusCancelled       BookingStatus = "cancelled"
)

// BookingType тип заявки: индивидуальный эскиз или готовый flash-дизайн
type BookingType string

const (
	BookingTypeCustom BookingType = "custom"
	BookingTypeFlash  BookingType = "flash"
)

// Booking заявка на бронирование - центральный агрегат системы
// Никогда не удаляется физически: отмена - это переход статуса
type Booking struct {
	ID          int64
	RequesterID int64
	Type        BookingType
	Status      BookingStatus

	// Описание работы
	Description    string
	Placement      *string // Часть тела
	Size           *string
	PreferredDates *string // Пожелания клиента по датам, свободный текст
	MedicalNotes   *string

	// Связи (заполняются по мере прохождения жизненного цикла)
	BookID       *int64 // Ресурс расписания
	FlashPieceID *int64
	FlashSizeID  *int64

	// Данные записи (заполняются при резервировании слота)
	AppointmentDate *time.Time
	StartTime       *types.TimeString
	EndTime         *types.TimeString
	DurationMinutes *int

	// Деньги
	DepositAmount  *float64
	TotalAmount    *float64
	DepositPaidAt  *time.Time
	FinalPaymentAt *time.Time // Оплата выставленного мастером счета

	DeclineReason      *string
	CancellationReason *string
	CancelledAt        *time.Time
	Notes              *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal возвращает true, если заявка в терминальном статусе
// Из терминального статуса возможен только reopen (completed -> confirmed)
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted ||
		b.Status == StatusDeclined ||
		b.Status == StatusCancelled
}

// IsEditable возвращает true, если клиент может редактировать содержимое заявки
func (b *Booking) IsEditable() bool {
	return b.Status == StatusPending || b.Status == StatusInfoRequested
}

// CanBeCancelled возвращает true, если заявку можно отменить.
// Отмена доступна из любого нетерминального статуса
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// HoldsSchedule возвращает true, если у заявки есть запись в расписании
func (b *Booking) HoldsSchedule() bool {
	return b.AppointmentDate != nil && b.StartTime != nil && b.EndTime != nil
}

// BookingsFilter фильтр для выборки заявок
type BookingsFilter struct {
	RequesterID     *int64
	BookID          *int64
	StartDate       *time.Time // Начало периода по дате записи
	EndDate         *time.Time // Конец периода по дате записи
	Status          *BookingStatus
	IncludeTerminal bool // Включать ли завершенные/отмененные/отклоненные
}
