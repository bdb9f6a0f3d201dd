package claim_flash

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	bookStorage "github.com/needleworks/INK-BookingService/internal/infra/storage/book"
	flashStorage "github.com/needleworks/INK-BookingService/internal/infra/storage/flash"
	"github.com/needleworks/INK-BookingService/internal/integrations/calendarmirror"
	"github.com/needleworks/INK-BookingService/internal/integrations/notifier"
	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
	"github.com/needleworks/INK-BookingService/pkg/ptr"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
)

const (
	outcomeClaimed       = "flash_claimed"
	outcomeSlotConflict  = "flash_slot_conflict"
	outcomePieceConflict = "flash_piece_conflict"
	outcomeSerialization = "flash_serialization_conflict"
	sideEffectTimeout    = 5 * time.Second
)

type UseCase struct {
	flashRepo    FlashRepository
	bookRepo     BookRepository
	bookingRepo  BookingRepository
	blockRepo    TimeBlockRepository
	availability AvailabilityUseCase
	notification NotificationService
	mirror       CalendarMirror
	txManager    TransactionManager
	metrics      Metrics
	logger       Logger
}

func NewUseCase(
	flashRepo FlashRepository,
	bookRepo BookRepository,
	bookingRepo BookingRepository,
	blockRepo TimeBlockRepository,
	availability AvailabilityUseCase,
	notification NotificationService,
	mirror CalendarMirror,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		flashRepo:    flashRepo,
		bookRepo:     bookRepo,
		bookingRepo:  bookingRepo,
		blockRepo:    blockRepo,
		availability: availability,
		notification: notification,
		mirror:       mirror,
		txManager:    txManager,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute бронирует flash-дизайн: claim дизайна, создание заявки и
// блока расписания фиксируются одной сериализуемой транзакцией.
// Проверка до транзакции - только быстрый отказ для UX, решает
// всегда повторная проверка внутри транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Быстрая проверка без транзакции
	size, err := uc.precheck(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Проверка существования книги записи
	if _, err := uc.bookRepo.GetByID(ctx, req.BookID); err != nil {
		if errors.Is(err, bookStorage.ErrBookNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, req.BookID)
		}
		return nil, fmt.Errorf("%w: failed to get book: %v", ErrInternal, err)
	}

	// 4. Атомарное бронирование
	var booking *domain.Booking
	var block *domain.TimeBlock
	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var txErr error
		booking, block, txErr = uc.claimAndBook(ctx, req, size)
		return txErr
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyClaimed):
			uc.metrics.IncReservationOutcome(outcomePieceConflict)
			return nil, ErrAlreadyClaimed
		case errors.Is(err, txmanager.ErrSerialization):
			uc.metrics.IncReservationOutcome(outcomeSerialization)
			return nil, uc.slotTaken(ctx, req, size)
		case errors.Is(err, ErrSlotTaken):
			uc.metrics.IncReservationOutcome(outcomeSlotConflict)
			return nil, uc.slotTaken(ctx, req, size)
		}
		return nil, err
	}

	uc.metrics.IncReservationOutcome(outcomeClaimed)

	// 5. Побочные эффекты после коммита
	uc.runSideEffects(booking, block, size)

	return &Response{Booking: booking, Block: block}, nil
}

// precheck отклоняет заведомо безнадёжные запросы до открытия
// транзакции. Результат не считается авторитетным
func (uc *UseCase) precheck(ctx context.Context, req *Request) (domain.FlashSize, error) {
	piece, err := uc.flashRepo.GetByID(ctx, req.PieceID)
	if err != nil {
		if errors.Is(err, flashStorage.ErrPieceNotFound) {
			return domain.FlashSize{}, fmt.Errorf("%w: id %d", ErrPieceNotFound, req.PieceID)
		}
		return domain.FlashSize{}, fmt.Errorf("%w: failed to get flash piece: %v", ErrInternal, err)
	}

	if !piece.IsAvailable() {
		if !piece.Active {
			return domain.FlashSize{}, fmt.Errorf("%w: id %d", ErrPieceNotFound, req.PieceID)
		}
		return domain.FlashSize{}, ErrAlreadyClaimed
	}

	size, ok := piece.SizeByID(req.SizeID)
	if !ok {
		return domain.FlashSize{}, fmt.Errorf("%w: piece %d has no size %d", ErrSizeNotFound, req.PieceID, req.SizeID)
	}

	if err := uc.validateDuration(req, size); err != nil {
		return domain.FlashSize{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return size, nil
}

// claimAndBook выполняется внутри сериализуемой транзакции
func (uc *UseCase) claimAndBook(ctx context.Context, req *Request, size domain.FlashSize) (*domain.Booking, *domain.TimeBlock, error) {
	// Авторитетная повторная проверка claim под блокировкой строки
	piece, err := uc.flashRepo.GetByID(ctx, req.PieceID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to get flash piece: %v", ErrInternal, err)
	}
	if !piece.IsAvailable() {
		return nil, nil, ErrAlreadyClaimed
	}

	// Авторитетная проверка пересечений
	overlapping, err := uc.blockRepo.GetOverlapping(ctx, req.BookID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to check overlaps: %v", ErrInternal, err)
	}
	if len(overlapping) > 0 {
		return nil, nil, ErrSlotTaken
	}

	deposit := roundMoney(size.Price * domain.FlashDepositRate)

	booking, err := uc.bookingRepo.Create(ctx, &domain.Booking{
		RequesterID:     req.RequesterID,
		Type:            domain.BookingTypeFlash,
		Status:          domain.StatusAwaitingDeposit,
		Description:     piece.Title,
		BookID:          ptr.Ptr(req.BookID),
		FlashPieceID:    ptr.Ptr(req.PieceID),
		FlashSizeID:     ptr.Ptr(req.SizeID),
		AppointmentDate: ptr.Ptr(req.Date),
		StartTime:       ptr.Ptr(req.StartTime),
		EndTime:         ptr.Ptr(req.EndTime),
		DurationMinutes: ptr.Ptr(size.DurationMinutes),
		DepositAmount:   ptr.Ptr(deposit),
		TotalAmount:     ptr.Ptr(size.Price),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	// Неповторяемый дизайн закрепляется за заявкой; повторяемый
	// остаётся в каталоге
	if !piece.Repeatable {
		if err := uc.flashRepo.Claim(ctx, req.PieceID, booking.ID); err != nil {
			if errors.Is(err, flashStorage.ErrAlreadyClaimed) {
				return nil, nil, ErrAlreadyClaimed
			}
			return nil, nil, fmt.Errorf("%w: failed to claim flash piece: %v", ErrInternal, err)
		}
	}

	block, err := uc.blockRepo.Create(ctx, &domain.TimeBlock{
		BookID:    req.BookID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      domain.BlockTypeAppointment,
		BookingID: ptr.Ptr(booking.ID),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create time block: %v", ErrInternal, err)
	}

	return booking, block, nil
}

// slotTaken собирает ошибку конфликта по времени с альтернативным
// слотом. Дизайн при этом остаётся доступным
func (uc *UseCase) slotTaken(ctx context.Context, req *Request, size domain.FlashSize) error {
	alternative, err := uc.availability.EarliestSlot(ctx, &availabilityUC.Request{
		BookID:          req.BookID,
		Date:            req.Date,
		DurationMinutes: size.DurationMinutes,
	})
	if err != nil {
		uc.logger.Warn("claim_flash: failed to find alternative for book %d on %s: %v",
			req.BookID, req.Date.Format(domain.DateFormat), err)
		return &SlotTakenError{}
	}

	return &SlotTakenError{Alternative: alternative}
}

// runSideEffects запускает уведомление о депозите и зеркалирование
// календаря. Ошибки логируются и не влияют на результат бронирования
func (uc *UseCase) runSideEffects(booking *domain.Booking, block *domain.TimeBlock, size domain.FlashSize) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		notification := notifier.Notification{
			RecipientID: booking.RequesterID,
			Template:    notifier.TemplateDepositRequested,
			Params: map[string]string{
				"booking_id":     fmt.Sprintf("%d", booking.ID),
				"deposit_amount": fmt.Sprintf("%.2f", *booking.DepositAmount),
				"date":           booking.AppointmentDate.Format(domain.DateFormat),
				"start_time":     booking.StartTime.String(),
			},
		}
		if err := uc.notification.Send(ctx, notification); err != nil {
			uc.logger.Warn("claim_flash: failed to send deposit notification for booking %d: %v", booking.ID, err)
		}

		event := calendarmirror.MirrorEvent{
			BlockID:     block.ID,
			Date:        block.Date.Format(domain.DateFormat),
			StartTime:   block.StartTime.String(),
			EndTime:     block.EndTime.String(),
			Description: fmt.Sprintf("Flash: %s (%s)", booking.Description, size.Label),
		}
		if err := uc.mirror.PushEvent(ctx, event); err != nil {
			uc.logger.Warn("claim_flash: failed to mirror block %d: %v", block.ID, err)
		}
	}()
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
