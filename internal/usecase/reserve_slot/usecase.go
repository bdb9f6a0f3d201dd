package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	bookStorage "github.com/needleworks/INK-BookingService/internal/infra/storage/book"
	"github.com/needleworks/INK-BookingService/internal/integrations/calendarmirror"
	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
)

// mirrorPushTimeout ограничивает фоновое зеркалирование,
// чтобы горутина не висела на недоступном календаре
const mirrorPushTimeout = 5 * time.Second

const (
	outcomeReserved             = "reserved"
	outcomeConflict             = "conflict"
	outcomeSerializationRetried = "serialization_conflict"
)

type UseCase struct {
	bookRepo     BookRepository
	blockRepo    TimeBlockRepository
	availability AvailabilityUseCase
	mirror       CalendarMirror
	txManager    TransactionManager
	metrics      Metrics
	logger       Logger
}

func NewUseCase(
	bookRepo BookRepository,
	blockRepo TimeBlockRepository,
	availability AvailabilityUseCase,
	mirror CalendarMirror,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookRepo:     bookRepo,
		blockRepo:    blockRepo,
		availability: availability,
		mirror:       mirror,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute резервирует интервал [StartTime, EndTime) в книге записи.
// Проверка пересечений и вставка блока выполняются в одной
// сериализуемой транзакции; при конфликте подбирается альтернативный
// слот той же длительности на ту же дату.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Проверка существования книги записи
	if _, err := uc.bookRepo.GetByID(ctx, req.BookID); err != nil {
		if errors.Is(err, bookStorage.ErrBookNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, req.BookID)
		}
		return nil, fmt.Errorf("%w: failed to get book: %v", ErrInternal, err)
	}

	// 3. Резервирование в сериализуемой транзакции
	var block *domain.TimeBlock
	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var txErr error
		block, txErr = uc.Reserve(ctx, req)
		return txErr
	})
	if err != nil {
		// Невозможность сериализовать конкурентные резервирования
		// означает, что слот оспаривается: для клиента это конфликт
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.metrics.IncReservationOutcome(outcomeSerializationRetried)
			return nil, uc.slotTaken(ctx, req)
		}
		if errors.Is(err, ErrSlotTaken) {
			uc.metrics.IncReservationOutcome(outcomeConflict)
			return nil, uc.slotTaken(ctx, req)
		}
		return nil, err
	}

	uc.metrics.IncReservationOutcome(outcomeReserved)

	// 4. Зеркалирование в календарь после коммита, без влияния
	// на результат. Внутри объемлющей транзакции коммита ещё не было:
	// событие публикует вызывающая сторона после её завершения
	if !txmanager.IsInTransaction(ctx) {
		uc.pushMirrorEvent(block, req.Description)
	}

	return &Response{Block: block}, nil
}

// Reserve выполняет проверку пересечений и вставку блока. Должен
// вызываться внутри открытой транзакции: блокировки FOR UPDATE
// действуют до её завершения.
func (uc *UseCase) Reserve(ctx context.Context, req *Request) (*domain.TimeBlock, error) {
	overlapping, err := uc.blockRepo.GetOverlapping(ctx, req.BookID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check overlaps: %v", ErrInternal, err)
	}
	if len(overlapping) > 0 {
		return nil, ErrSlotTaken
	}

	blockType := domain.BlockTypeManual
	if req.BookingID != nil {
		blockType = domain.BlockTypeAppointment
	}

	block, err := uc.blockRepo.Create(ctx, &domain.TimeBlock{
		BookID:    req.BookID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      blockType,
		BookingID: req.BookingID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create time block: %v", ErrInternal, err)
	}

	return block, nil
}

// slotTaken собирает ошибку конфликта с альтернативным слотом.
// Подбор альтернативы выполняется вне транзакции и может вернуть
// nil, если день занят полностью.
func (uc *UseCase) slotTaken(ctx context.Context, req *Request) error {
	// Времена прошли валидацию в Execute
	startMin, _ := req.StartTime.Minutes()
	endMin, _ := req.EndTime.Minutes()
	duration := endMin - startMin

	alternative, err := uc.availability.EarliestSlot(ctx, &availabilityUC.Request{
		BookID:          req.BookID,
		Date:            req.Date,
		DurationMinutes: duration,
	})
	if err != nil {
		uc.logger.Warn("reserve_slot: failed to find alternative for book %d on %s: %v",
			req.BookID, req.Date.Format(domain.DateFormat), err)
		return &SlotTakenError{}
	}

	return &SlotTakenError{Alternative: alternative}
}

func (uc *UseCase) pushMirrorEvent(block *domain.TimeBlock, description string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorPushTimeout)
		defer cancel()

		event := calendarmirror.MirrorEvent{
			BlockID:     block.ID,
			Date:        block.Date.Format(domain.DateFormat),
			StartTime:   block.StartTime.String(),
			EndTime:     block.EndTime.String(),
			Description: description,
		}
		if err := uc.mirror.PushEvent(ctx, event); err != nil {
			uc.logger.Warn("reserve_slot: failed to mirror block %d: %v", block.ID, err)
		}
	}()
}
