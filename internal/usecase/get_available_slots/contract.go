package get_available_slots

import (
	"context"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

// BookRepository интерфейс репозитория книг записи
type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
}

// TimeBlockRepository интерфейс репозитория занятых интервалов
type TimeBlockRepository interface {
	// GetByBookAndDate возвращает занятые интервалы книги на дату,
	// отсортированные по времени начала
	GetByBookAndDate(ctx context.Context, bookID int64, date time.Time) ([]*domain.TimeBlock, error)
}

// ExceptionRepository интерфейс репозитория исключений расписания
type ExceptionRepository interface {
	GetByBookAndDate(ctx context.Context, bookID int64, date time.Time) (*domain.DayException, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
