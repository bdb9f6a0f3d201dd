package transition_booking

import (
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// Request запрос на переход статуса заявки
type Request struct {
	BookingID int64
	Target    domain.BookingStatus
	ActorID   int64
	ActorRole domain.Role
	Payload   Payload
}

// Payload данные перехода; какие поля обязательны, определяется
// целевым статусом
type Payload struct {
	// approved: параметры работы, назначенные мастером
	DurationMinutes *int
	DepositAmount   *float64
	TotalAmount     *float64

	// info_requested: вопрос мастера клиенту
	Note *string

	// declined
	DeclineReason *string

	// awaiting_deposit: выбранный клиентом слот
	BookID    *int64
	Date      *time.Time
	StartTime *types.TimeString

	// confirmed (из ledger): время оплаты депозита
	DepositPaidAt *time.Time

	// cancelled
	CancellationReason *string
}

// Response обновлённая заявка после перехода
type Response struct {
	Booking *domain.Booking

	// Effects заполняется, когда переход выполнялся внутри объемлющей
	// транзакции: вызывающий исполняет их через FlushEffects после
	// коммита своей транзакции
	Effects *SideEffects
}
