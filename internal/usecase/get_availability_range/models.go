package get_availability_range

import "time"

// Request модель запроса доступности за период
type Request struct {
	BookID          int64
	StartDate       time.Time
	EndDate         time.Time
	DurationMinutes int
}

// Response модель ответа: дата (YYYY-MM-DD) -> есть ли хотя бы один слот
// Булева проекция для отрисовки календарной сетки, без деталей слотов
type Response struct {
	BookID          int64
	DurationMinutes int
	Days            map[string]bool
}
