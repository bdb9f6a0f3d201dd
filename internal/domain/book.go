package domain

import (
	"time"

	"github.com/needleworks/INK-BookingService/pkg/types"
)

// BookType тип книги записи
type BookType string

const (
	BookTypeCustom BookType = "custom"
	BookTypeFlash  BookType = "flash"
)

// DayHours рабочий интервал одного дня недели
type DayHours struct {
	Open  types.TimeString
	Close types.TimeString
}

// Book книга записи - ресурс, на который резервируются слоты
// Недельное расписание хранится как map по дню недели: отсутствие
// записи означает выходной день
type Book struct {
	ID            int64
	Name          string
	Type          BookType
	Active        bool
	OpensOn       *time.Time // Начало периода записи (nil = без ограничения)
	ClosesOn      *time.Time // Конец периода записи (nil = без ограничения)
	DepositAmount float64
	Hours         map[time.Weekday]DayHours

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoursFor возвращает рабочие часы на день недели указанной даты
// Второе значение false - день не сконфигурирован (выходной)
func (b *Book) HoursFor(date time.Time) (DayHours, bool) {
	hours, ok := b.Hours[date.Weekday()]
	return hours, ok
}

// IsBookableOn возвращает true, если книга активна и дата входит
// в её период записи
func (b *Book) IsBookableOn(date time.Time) bool {
	if !b.Active {
		return false
	}
	day := dateOnly(date)
	if b.OpensOn != nil && day.Before(dateOnly(*b.OpensOn)) {
		return false
	}
	if b.ClosesOn != nil && day.After(dateOnly(*b.ClosesOn)) {
		return false
	}
	return true
}

// HasAnyOpenDay возвращает true, если хотя бы один день недели сконфигурирован
// Книга без единого рабочего дня никогда не даёт доступности
func (b *Book) HasAnyOpenDay() bool {
	return len(b.Hours) > 0
}

// dateOnly обнуляет время, оставляя только дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
