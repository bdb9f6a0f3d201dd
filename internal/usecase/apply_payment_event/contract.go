package apply_payment_event

import (
	"context"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	transitionUC "github.com/needleworks/INK-BookingService/internal/usecase/transition_booking"
)

// PaymentEventRepository интерфейс ledger обработанных событий
type PaymentEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	// Insert возвращает ErrDuplicateEvent при повторном event_id
	Insert(ctx context.Context, event *domain.ProcessedPaymentEvent) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	SetFinalPaymentPaid(ctx context.Context, id int64, paidAt time.Time) error
}

// TransitionUseCase применяет переход awaiting_deposit -> confirmed
// от имени ledger. Execute вызывается внутри транзакции применения
// события, поэтому собранные им эффекты возвращаются отложенными
// и исполняются через FlushEffects после её коммита
type TransitionUseCase interface {
	Execute(ctx context.Context, req *transitionUC.Request) (*transitionUC.Response, error)
	FlushEffects(bookingID int64, effects *transitionUC.SideEffects)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик применения платежных событий
type Metrics interface {
	IncPaymentEventResult(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
