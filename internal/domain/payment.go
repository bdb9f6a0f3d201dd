package domain

import "time"

// Типы платежных событий, имеющие доменный эффект
// Остальные типы записываются в ledger только для дедупликации
const (
	PaymentEventDepositPaid = "deposit.paid"
	PaymentEventRequestPaid = "payment_request.paid"
)

// ProcessedPaymentEvent строка ledger обработанных платежных событий
// Наличие строки означает, что эффект события уже применен и повторная
// доставка того же event_id должна быть no-op
type ProcessedPaymentEvent struct {
	EventID        string
	EventType      string
	EventCreatedAt time.Time // Время создания события на стороне провайдера
	ProcessedAt    time.Time
}
