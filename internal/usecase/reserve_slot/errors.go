package reserve_slot

import (
	"errors"
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_slot: invalid input data")

	// ErrBookNotFound возвращается, когда книга записи не найдена
	ErrBookNotFound = errors.New("reserve_slot: book not found")

	// ErrSlotTaken возвращается, когда запрошенный интервал
	// пересекается с существующим блоком
	ErrSlotTaken = errors.New("reserve_slot: slot taken")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("reserve_slot: internal error")
)

// SlotTakenError несёт альтернативный слот той же длительности,
// если он нашёлся в этот день. errors.Is(err, ErrSlotTaken) == true
type SlotTakenError struct {
	Alternative *domain.Slot
}

func (e *SlotTakenError) Error() string {
	if e.Alternative != nil {
		return fmt.Sprintf("slot taken, alternative at %s", e.Alternative.StartTime)
	}
	return "slot taken, no alternative available"
}

func (e *SlotTakenError) Is(target error) bool {
	return target == ErrSlotTaken
}
