package transition_booking

import (
	"context"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/internal/integrations/calendarmirror"
	"github.com/needleworks/INK-BookingService/internal/integrations/notifier"
	"github.com/needleworks/INK-BookingService/internal/usecase/reserve_slot"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	// GetByID внутри транзакции берёт строку с блокировкой
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdateApproval(ctx context.Context, id int64, durationMinutes int, depositAmount, totalAmount float64) error
	UpdateSchedule(ctx context.Context, id int64, bookID int64, date time.Time, start, end types.TimeString) error
	UpdateNotes(ctx context.Context, id int64, notes string) error
	SetDepositPaid(ctx context.Context, id int64, paidAt time.Time) error
	Decline(ctx context.Context, id int64, reason string) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// TimeBlockRepository интерфейс репозитория занятых интервалов
type TimeBlockRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.TimeBlock, error)
	DeleteByBookingID(ctx context.Context, bookingID int64) error
}

// FlashRepository интерфейс репозитория flash-дизайнов
type FlashRepository interface {
	// Release снимает claim, только если он удерживается этой заявкой.
	// Возвращает false, если claim уже перешёл другой заявке
	Release(ctx context.Context, pieceID, bookingID int64) (bool, error)
}

// SlotReserver резервирует слот для перехода approved -> awaiting_deposit.
// Вызывается внутри транзакции перехода: неудачное резервирование
// не продвигает статус
type SlotReserver interface {
	Execute(ctx context.Context, req *reserve_slot.Request) (*reserve_slot.Response, error)
}

// NotificationService интерфейс сервиса уведомлений
type NotificationService interface {
	Send(ctx context.Context, notification notifier.Notification) error
	CancelPending(ctx context.Context, bookingID int64) error
}

// CalendarMirror интерфейс зеркального календаря
// Вызывается после коммита, ошибки не откатывают переход
type CalendarMirror interface {
	PushEvent(ctx context.Context, event calendarmirror.MirrorEvent) error
	RemoveEvent(ctx context.Context, blockID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
