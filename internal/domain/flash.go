package domain

import "time"

// FlashPiece готовый дизайн из каталога
// Неповторяемый дизайн может быть забронирован только один раз:
// claim ставится атомарно вместе с созданием заявки и блока расписания
type FlashPiece struct {
	ID          int64
	Title       string
	Description *string
	Repeatable  bool
	Claimed     bool
	ClaimedBy   *int64 // ID заявки, удерживающей claim
	Active      bool
	Sizes       []FlashSize

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAvailable возвращает true, если дизайн можно бронировать
// Для повторяемых дизайнов claim не учитывается
func (p *FlashPiece) IsAvailable() bool {
	if !p.Active {
		return false
	}
	return p.Repeatable || !p.Claimed
}

// SizeByID возвращает вариант размера по ID
func (p *FlashPiece) SizeByID(sizeID int64) (FlashSize, bool) {
	for _, s := range p.Sizes {
		if s.ID == sizeID {
			return s, true
		}
	}
	return FlashSize{}, false
}

// FlashSize вариант размера flash-дизайна со своей длительностью и ценой
type FlashSize struct {
	ID              int64
	PieceID         int64
	Label           string // Например "small", "medium", "large"
	DurationMinutes int
	Price           float64
}
