package claim_flash

import (
	"context"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/internal/integrations/calendarmirror"
	"github.com/needleworks/INK-BookingService/internal/integrations/notifier"
	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// FlashRepository интерфейс репозитория flash-дизайнов
type FlashRepository interface {
	// GetByID внутри транзакции берёт строку с блокировкой
	GetByID(ctx context.Context, id int64) (*domain.FlashPiece, error)
	// Claim помечает дизайн занятым; возвращает ErrAlreadyClaimed,
	// если claim уже удерживается
	Claim(ctx context.Context, pieceID, bookingID int64) error
}

// BookRepository интерфейс репозитория книг записи
type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
}

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// TimeBlockRepository интерфейс репозитория занятых интервалов
type TimeBlockRepository interface {
	GetOverlapping(ctx context.Context, bookID int64, date time.Time, start, end types.TimeString) ([]*domain.TimeBlock, error)
	Create(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error)
}

// AvailabilityUseCase интерфейс для подбора альтернативного слота
// при конфликте по времени
type AvailabilityUseCase interface {
	EarliestSlot(ctx context.Context, req *availabilityUC.Request) (*domain.Slot, error)
}

// NotificationService интерфейс сервиса уведомлений
type NotificationService interface {
	Send(ctx context.Context, notification notifier.Notification) error
}

// CalendarMirror интерфейс зеркального календаря
type CalendarMirror interface {
	PushEvent(ctx context.Context, event calendarmirror.MirrorEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик резервирования
type Metrics interface {
	IncReservationOutcome(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
