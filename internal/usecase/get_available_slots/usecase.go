package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
	bookRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/book"
	excRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/exception"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// UseCase use case вычисления свободных слотов на день
// Чисто читающий: ошибки хранилища пробрасываются как generic failure,
// частичного состояния на read-пути не бывает
type UseCase struct {
	bookRepo  BookRepository
	blockRepo TimeBlockRepository
	excRepo   ExceptionRepository
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookRepo BookRepository,
	blockRepo TimeBlockRepository,
	excRepo ExceptionRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookRepo:  bookRepo,
		blockRepo: blockRepo,
		excRepo:   excRepo,
		logger:    logger,
	}
}

// Execute вычисляет свободные интервалы книги на дату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: book=%d, date=%s, duration=%d",
		req.BookID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем книгу записи
	book, err := uc.bookRepo.GetByID(ctx, req.BookID)
	if err != nil {
		if errors.Is(err, bookRepo.ErrBookNotFound) {
			uc.logger.Warn("GetAvailableSlots: book id=%d not found", req.BookID)
			return nil, ErrBookNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get book id=%d: %v", req.BookID, err)
		return nil, fmt.Errorf("%w: failed to get book: %v", ErrInternal, err)
	}

	// 3. Вычисляем свободные интервалы
	slots, err := uc.slotsForDate(ctx, book, req)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: %d slots for book=%d, date=%s",
		len(slots), req.BookID, req.Date.Format(domain.DateFormat))

	return &Response{
		BookID:          req.BookID,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Slots:           slots,
	}, nil
}

// EarliestSlot возвращает первый свободный слот, урезанный ровно до
// запрошенной длительности
// Используется как альтернатива при проигранной гонке резервирования
func (uc *UseCase) EarliestSlot(ctx context.Context, req *Request) (*domain.Slot, error) {
	resp, err := uc.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Slots) == 0 {
		return nil, nil
	}

	first := resp.Slots[0]
	end, err := first.StartTime.AddMinutes(req.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to size earliest slot: %v", ErrInternal, err)
	}

	return &domain.Slot{
		StartTime:       first.StartTime,
		EndTime:         end,
		DurationMinutes: req.DurationMinutes,
	}, nil
}

// slotsForDate выполняет вычисление доступности на один день
// Линейный проход по блокам: O(n) на дату
func (uc *UseCase) slotsForDate(ctx context.Context, book *domain.Book, req *Request) ([]domain.Slot, error) {
	// Книга неактивна или дата вне периода записи - доступности нет
	if !book.IsBookableOn(req.Date) || !book.HasAnyOpenDay() {
		return []domain.Slot{}, nil
	}

	// Исключение на дату: полностью закрытый день обрезает всё сразу
	exc, err := uc.excRepo.GetByBookAndDate(ctx, req.BookID, req.Date)
	if err != nil && !errors.Is(err, excRepo.ErrExceptionNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get exception: %v", err)
		return nil, fmt.Errorf("%w: failed to get day exception: %v", ErrInternal, err)
	}
	if errors.Is(err, excRepo.ErrExceptionNotFound) {
		exc = nil
	}

	baseStart, baseEnd, open, err := baseInterval(book, exc, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute base interval: %v", err)
		return nil, fmt.Errorf("%w: failed to compute base interval: %v", ErrInternal, err)
	}
	if !open {
		return []domain.Slot{}, nil
	}

	blocks, err := uc.blockRepo.GetByBookAndDate(ctx, req.BookID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	slots, err := freeSlots(baseStart, baseEnd, blocks, req.DurationMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute free slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute free slots: %v", ErrInternal, err)
	}

	return slots, nil
}

// ContainsInterval проверяет, что интервал [start, end) целиком лежит
// внутри одного из свободных слотов ответа
func (r *Response) ContainsInterval(start, end types.TimeString) bool {
	for _, slot := range r.Slots {
		if !start.IsBefore(slot.StartTime) && !slot.EndTime.IsBefore(end) {
			return true
		}
	}
	return false
}
