package claim_flash

import (
	"errors"
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("claim_flash: invalid input data")

	// ErrPieceNotFound возвращается, когда flash-дизайн не найден
	// или снят с публикации
	ErrPieceNotFound = errors.New("claim_flash: flash piece not found")

	// ErrSizeNotFound возвращается, когда у дизайна нет такого
	// варианта размера
	ErrSizeNotFound = errors.New("claim_flash: flash size not found")

	// ErrBookNotFound возвращается, когда книга записи не найдена
	ErrBookNotFound = errors.New("claim_flash: book not found")

	// ErrAlreadyClaimed возвращается, когда неповторяемый дизайн уже
	// забронирован. Альтернативное время не предлагается: дизайна
	// больше нет
	ErrAlreadyClaimed = errors.New("claim_flash: flash piece already claimed")

	// ErrSlotTaken возвращается, когда запрошенный интервал занят
	ErrSlotTaken = errors.New("claim_flash: slot taken")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("claim_flash: internal error")
)

// SlotTakenError несёт альтернативный слот той же длительности.
// errors.Is(err, ErrSlotTaken) == true
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
