package domain

import "time"

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Ограничения валидации
const (
	MinAppointmentDurationMinutes = 30
	MaxAppointmentDurationMinutes = 600 // Полный рабочий день с запасом
	MaxDescriptionLength          = 2000
	MaxNotesLength                = 1000
	MaxCancellationReasonLength   = 500
	MaxRangeQueryDays             = 92 // Три месяца на один запрос календарной сетки
)

// FlashDepositRate доля от цены flash-дизайна, запрашиваемая как депозит
// при бронировании из каталога. Для кастомных заявок депозит назначает
// мастер при одобрении
const FlashDepositRate = 0.25

// Платежный ledger
const (
	// PaymentEventFreshnessWindow максимальный возраст события провайдера;
	// более старые события считаются replay и не применяются
	PaymentEventFreshnessWindow = 72 * time.Hour

	// PaymentEventRetention срок хранения строк ledger; более старые строки
	// можно удалять, очистка best-effort и не влияет на корректность
	PaymentEventRetention = 90 * 24 * time.Hour
)

// TerminalStatuses статусы, из которых заявка не участвует в расписании
// Используются при фильтрации активных заявок
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusDeclined,
	StatusCancelled,
}
