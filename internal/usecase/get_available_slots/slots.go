package get_available_slots

import (
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// baseInterval вычисляет рабочий интервал дня в минутах от полуночи
// Приоритет: исключение на дату (закрыто / особые часы), затем недельное
// расписание книги. open = false - в этот день доступности нет
func baseInterval(book *domain.Book, exc *domain.DayException, date time.Time) (start, end int, open bool, err error) {
	if exc != nil {
		if exc.Closed {
			return 0, 0, false, nil
		}
		if exc.HasCustomHours() {
			start, err = exc.OpenTime.Minutes()
			if err != nil {
				return 0, 0, false, err
			}
			end, err = exc.CloseTime.Minutes()
			if err != nil {
				return 0, 0, false, err
			}
			return start, end, start < end, nil
		}
		// Исключение без особых часов и без флага closed данных не несёт -
		// падаем обратно на недельное расписание
	}

	hours, ok := book.HoursFor(date)
	if !ok {
		return 0, 0, false, nil
	}

	start, err = hours.Open.Minutes()
	if err != nil {
		return 0, 0, false, err
	}
	end, err = hours.Close.Minutes()
	if err != nil {
		return 0, 0, false, err
	}
	return start, end, start < end, nil
}

// freeSlots вычитает занятые интервалы из рабочего интервала дня
// и возвращает все максимальные свободные промежутки длиной >= duration
//
// Блоки должны быть отсортированы по началу. Проход линейный: курсор идёт
// слева направо, блок, начинающийся до курсора, лишь продвигает курсор
// к своему концу (назад курсор не движется), блок, начинающийся за концом
// рабочего интервала, завершает проход
func freeSlots(baseStart, baseEnd int, blocks []*domain.TimeBlock, duration int) ([]domain.Slot, error) {
	slots := make([]domain.Slot, 0)
	cursor := baseStart

	for _, block := range blocks {
		blockStart, err := block.StartTime.Minutes()
		if err != nil {
			return nil, err
		}
		blockEnd, err := block.EndTime.Minutes()
		if err != nil {
			return nil, err
		}

		if blockStart >= baseEnd {
			break
		}

		if blockStart > cursor && blockStart-cursor >= duration {
			slot, err := makeSlot(cursor, blockStart)
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot)
		}

		if blockEnd > cursor {
			cursor = blockEnd
		}
		if cursor >= baseEnd {
			return slots, nil
		}
	}

	// Хвостовой промежуток от курсора до конца рабочего дня
	if baseEnd-cursor >= duration {
		slot, err := makeSlot(cursor, baseEnd)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// makeSlot собирает слот из границ в минутах
func makeSlot(start, end int) (domain.Slot, error) {
	startTime, err := types.NewTimeStringFromMinutes(start)
	if err != nil {
		return domain.Slot{}, err
	}
	endTime, err := types.NewTimeStringFromMinutes(end)
	if err != nil {
		return domain.Slot{}, err
	}
	return domain.Slot{
		StartTime:       startTime,
		EndTime:         endTime,
		DurationMinutes: end - start,
	}, nil
}
