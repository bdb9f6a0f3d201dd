package reserve_slot

import (
	"context"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/internal/integrations/calendarmirror"
	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// BookRepository интерфейс репозитория книг записи
type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
}

// TimeBlockRepository интерфейс репозитория занятых интервалов
type TimeBlockRepository interface {
	// GetOverlapping возвращает блоки, пересекающиеся с [start, end)
	// по полуоткрытому сравнению
	GetOverlapping(ctx context.Context, bookID int64, date time.Time, start, end types.TimeString) ([]*domain.TimeBlock, error)
	Create(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error)
}

// AvailabilityUseCase интерфейс для подбора альтернативного слота
// при конфликте
type AvailabilityUseCase interface {
	EarliestSlot(ctx context.Context, req *availabilityUC.Request) (*domain.Slot, error)
}

// CalendarMirror интерфейс зеркального календаря
// Вызывается после коммита, ошибки не откатывают резервирование
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
