package apply_payment_event

import "time"

// Result итог применения события. duplicate и stale - не ошибки,
// а успешные no-op, различимые в логах и метриках
type Result string

const (
	ResultApplied   Result = "applied"
	ResultDuplicate Result = "duplicate"
	ResultStale     Result = "stale"
)

// Request платежное событие от провайдера
// Подлинность события (подпись) проверяет вызывающая сторона;
// ledger отвечает только за идемпотентность и свежесть
type Request struct {
	EventID        string
	EventType      string
	EventCreatedAt time.Time
	BookingID      int64
}

// Response результат обработки события
type Response struct {
	Result Result
}
