package get_available_slots

import (
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

// Request модель запроса доступных слотов на день
type Request struct {
	BookID          int64     // ID книги записи
	Date            time.Time // Дата (без времени)
	DurationMinutes int       // Требуемая длительность записи
}

// Response модель ответа со списком свободных интервалов
type Response struct {
	BookID          int64
	Date            time.Time
	DurationMinutes int
	Slots           []domain.Slot // Непересекающиеся интервалы по возрастанию времени
}
