package flash

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

// FlashRepository интерфейс репозитория flash-дизайнов
type FlashRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.FlashPiece, error)
	List(ctx context.Context, availableOnly bool) ([]*domain.FlashPiece, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
