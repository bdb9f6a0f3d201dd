package schedule

import (
	"context"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/internal/usecase/reserve_slot"
)

// BookRepository интерфейс репозитория книг записи
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
}

// ExceptionRepository интерфейс репозитория исключений расписания
type ExceptionRepository interface {
	Upsert(ctx context.Context, exc *domain.DayException) (*domain.DayException, error)
	GetByBookAndRange(ctx context.Context, bookID int64, start, end time.Time) ([]*domain.DayException, error)
	DeleteByBookAndDate(ctx context.Context, bookID int64, date time.Time) error
}

// TimeBlockRepository интерфейс репозитория занятых интервалов
type TimeBlockRepository interface {
	GetByBookAndDate(ctx context.Context, bookID int64, date time.Time) ([]*domain.TimeBlock, error)
	Delete(ctx context.Context, id int64) error
}

// SlotReserver создает блоки через общий путь резервирования:
// ручной блок мастера проходит ту же проверку пересечений
type SlotReserver interface {
	Execute(ctx context.Context, req *reserve_slot.Request) (*reserve_slot.Response, error)
}

// CalendarMirror интерфейс зеркального календаря
type CalendarMirror interface {
	RemoveEvent(ctx context.Context, blockID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
