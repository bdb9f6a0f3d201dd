package transition_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	bookingStorage "github.com/needleworks/INK-BookingService/internal/infra/storage/booking"
	timeblockStorage "github.com/needleworks/INK-BookingService/internal/infra/storage/timeblock"
	"github.com/needleworks/INK-BookingService/internal/integrations/calendarmirror"
	"github.com/needleworks/INK-BookingService/internal/integrations/notifier"
	"github.com/needleworks/INK-BookingService/internal/usecase/reserve_slot"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
)

const sideEffectTimeout = 5 * time.Second

type UseCase struct {
	bookingRepo  BookingRepository
	blockRepo    TimeBlockRepository
	flashRepo    FlashRepository
	reserver     SlotReserver
	notification NotificationService
	mirror       CalendarMirror
	txManager    TransactionManager
	logger       Logger
}

func NewUseCase(
	bookingRepo BookingRepository,
	blockRepo TimeBlockRepository,
	flashRepo FlashRepository,
	reserver SlotReserver,
	notification NotificationService,
	mirror CalendarMirror,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		blockRepo:    blockRepo,
		flashRepo:    flashRepo,
		reserver:     reserver,
		notification: notification,
		mirror:       mirror,
		txManager:    txManager,
		logger:       logger,
	}
}

// SideEffects собирается внутри транзакции и исполняется строго после
// её коммита. Когда переход выполнялся внутри объемлющей транзакции,
// эффекты возвращаются в Response: вызывающий исполняет их через
// FlushEffects после коммита своей транзакции
type SideEffects struct {
	notifications     []notifier.Notification
	cancelPending     bool
	removedBlockID    *int64
	mirroredBlock     *domain.TimeBlock
	mirrorDescription string
}

func (e *SideEffects) empty() bool {
	return len(e.notifications) == 0 && !e.cancelPending &&
		e.removedBlockID == nil && e.mirroredBlock == nil
}

// Execute - единая точка входа для переходов статуса заявки.
// Допустимость перехода решает таблица domain.CanTransition; проверки
// статусов не дублируются по вызывающим местам. Переход и его побочные
// изменения состояния выполняются одной транзакцией
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Переход в транзакции
	var updated *domain.Booking
	effects := &SideEffects{}
	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// Повтор транзакции начинает сбор эффектов заново
		*effects = SideEffects{}

		booking, txErr := uc.bookingRepo.GetByID(ctx, req.BookingID)
		if txErr != nil {
			if errors.Is(txErr, bookingStorage.ErrBookingNotFound) {
				return fmt.Errorf("%w: id %d", ErrBookingNotFound, req.BookingID)
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, txErr)
		}

		// Клиент распоряжается только своей заявкой
		if req.ActorRole == domain.RoleRequester && booking.RequesterID != req.ActorID {
			return fmt.Errorf("%w: booking %d does not belong to requester %d",
				ErrAccessDenied, req.BookingID, req.ActorID)
		}

		if !domain.CanTransition(booking.Status, req.Target, req.ActorRole) {
			// Переход существует, но закреплён за другой ролью
			if domain.TransitionExists(booking.Status, req.Target) {
				return fmt.Errorf("%w: %s -> %s is not allowed for role %s",
					ErrAccessDenied, booking.Status, req.Target, req.ActorRole)
			}
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, booking.Status, req.Target)
		}

		if txErr := uc.apply(ctx, booking, req, effects); txErr != nil {
			return txErr
		}

		updated, txErr = uc.bookingRepo.GetByID(ctx, req.BookingID)
		if txErr != nil {
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("transition_booking: booking %d moved to %s by %s %d",
		req.BookingID, req.Target, req.ActorRole, req.ActorID)

	// 3. Побочные эффекты исполняются только после коммита. Внутри
	// объемлющей транзакции коммита ещё не было: эффекты возвращаются
	// вызывающему и исполняются после её завершения
	if txmanager.IsInTransaction(ctx) {
		return &Response{Booking: updated, Effects: effects}, nil
	}
	uc.FlushEffects(req.BookingID, effects)

	return &Response{Booking: updated}, nil
}

// apply выполняет действие перехода. Допустимость пары статусов уже
// проверена, здесь остаются предусловия конкретных переходов
func (uc *UseCase) apply(ctx context.Context, booking *domain.Booking, req *Request, effects *SideEffects) error {
	switch req.Target {
	case domain.StatusApproved:
		return uc.applyApprove(ctx, booking, req, effects)
	case domain.StatusInfoRequested:
		return uc.applyInfoRequest(ctx, booking, req, effects)
	case domain.StatusDeclined:
		return uc.applyDecline(ctx, booking, req, effects)
	case domain.StatusAwaitingDeposit:
		return uc.applySchedule(ctx, booking, req, effects)
	case domain.StatusConfirmed:
		return uc.applyConfirm(ctx, booking, req, effects)
	case domain.StatusCompleted:
		return uc.updateStatus(ctx, booking.ID, domain.StatusCompleted)
	case domain.StatusCancelled:
		return uc.applyCancel(ctx, booking, req, effects)
	}
	return fmt.Errorf("%w: no action for target %s", ErrIllegalTransition, req.Target)
}

func (uc *UseCase) applyApprove(ctx context.Context, booking *domain.Booking, req *Request, effects *SideEffects) error {
	p := req.Payload
	if p.DurationMinutes == nil || p.DepositAmount == nil || p.TotalAmount == nil {
		return fmt.Errorf("%w: approval requires duration, deposit and total amounts", ErrInvalidInput)
	}

	err := uc.bookingRepo.UpdateApproval(ctx, booking.ID, *p.DurationMinutes, *p.DepositAmount, *p.TotalAmount)
	if err != nil {
		return fmt.Errorf("%w: failed to approve booking: %v", ErrInternal, err)
	}

	effects.notifications = append(effects.notifications, notifier.Notification{
		RecipientID: booking.RequesterID,
		Template:    notifier.TemplateBookingApproved,
		Params: map[string]string{
			"booking_id":     fmt.Sprintf("%d", booking.ID),
			"deposit_amount": fmt.Sprintf("%.2f", *p.DepositAmount),
			"total_amount":   fmt.Sprintf("%.2f", *p.TotalAmount),
		},
	})
	return nil
}

func (uc *UseCase) applyInfoRequest(ctx context.Context, booking *domain.Booking, req *Request, effects *SideEffects) error {
	if req.Payload.Note == nil || *req.Payload.Note == "" {
		return fmt.Errorf("%w: info request requires a note", ErrInvalidInput)
	}

	if err := uc.bookingRepo.UpdateNotes(ctx, booking.ID, *req.Payload.Note); err != nil {
		return fmt.Errorf("%w: failed to save note: %v", ErrInternal, err)
	}
	if err := uc.updateStatus(ctx, booking.ID, domain.StatusInfoRequested); err != nil {
		return err
	}

	effects.notifications = append(effects.notifications, notifier.Notification{
		RecipientID: booking.RequesterID,
		Template:    notifier.TemplateInfoRequested,
		Params: map[string]string{
			"booking_id": fmt.Sprintf("%d", booking.ID),
			"note":       *req.Payload.Note,
		},
	})
	return nil
}

func (uc *UseCase) applyDecline(ctx context.Context, booking *domain.Booking, req *Request, effects *SideEffects) error {
	if req.Payload.DeclineReason == nil || *req.Payload.DeclineReason == "" {
		return fmt.Errorf("%w: decline requires a reason", ErrInvalidInput)
	}

	if err := uc.bookingRepo.Decline(ctx, booking.ID, *req.Payload.DeclineReason); err != nil {
		return fmt.Errorf("%w: failed to decline booking: %v", ErrInternal, err)
	}

	effects.notifications = append(effects.notifications, notifier.Notification{
		RecipientID: booking.RequesterID,
		Template:    notifier.TemplateBookingDeclined,
		Params: map[string]string{
			"booking_id": fmt.Sprintf("%d", booking.ID),
			"reason":     *req.Payload.DeclineReason,
		},
	})
	return nil
}

// applySchedule резервирует выбранный клиентом слот и двигает заявку
// в awaiting_deposit. Резервирование выполняется в этой же транзакции:
// при конфликте статус не продвигается
func (uc *UseCase) applySchedule(ctx context.Context, booking *domain.Booking, req *Request, effects *SideEffects) error {
	p := req.Payload
	if p.BookID == nil || p.Date == nil || p.StartTime == nil {
		return fmt.Errorf("%w: scheduling requires book, date and start time", ErrInvalidInput)
	}
	if booking.DurationMinutes == nil {
		return fmt.Errorf("%w: booking %d has no duration set", ErrIllegalTransition, booking.ID)
	}

	endTime, err := p.StartTime.AddMinutes(*booking.DurationMinutes)
	if err != nil {
		return fmt.Errorf("%w: interval exceeds the day: %v", ErrInvalidInput, err)
	}

	reserved, err := uc.reserver.Execute(ctx, &reserve_slot.Request{
		BookID:      *p.BookID,
		Date:        *p.Date,
		StartTime:   *p.StartTime,
		EndTime:     endTime,
		BookingID:   &booking.ID,
		Description: booking.Description,
	})
	if err != nil {
		// Конфликт слота уходит наверх как есть, вместе
		// с альтернативой
		return err
	}

	// Блок создан внутри этой транзакции: зеркалирование
	// откладывается до её коммита
	effects.mirroredBlock = reserved.Block
	effects.mirrorDescription = booking.Description

	if err := uc.bookingRepo.UpdateSchedule(ctx, booking.ID, *p.BookID, *p.Date, *p.StartTime, endTime); err != nil {
		return fmt.Errorf("%w: failed to update schedule: %v", ErrInternal, err)
	}

	effects.notifications = append(effects.notifications, notifier.Notification{
		RecipientID: booking.RequesterID,
		Template:    notifier.TemplateDepositRequested,
		Params: map[string]string{
			"booking_id": fmt.Sprintf("%d", booking.ID),
			"date":       p.Date.Format(domain.DateFormat),
			"start_time": p.StartTime.String(),
		},
	})
	return nil
}

// applyConfirm обслуживает два перехода в confirmed: оплату депозита
// из ledger и reopen завершённого сеанса мастером
func (uc *UseCase) applyConfirm(ctx context.Context, booking *domain.Booking, req *Request, effects *SideEffects) error {
	if booking.Status == domain.StatusCompleted {
		// reopen
		return uc.updateStatus(ctx, booking.ID, domain.StatusConfirmed)
	}

	if req.Payload.DepositPaidAt == nil {
		return fmt.Errorf("%w: confirmation requires deposit payment time", ErrInvalidInput)
	}

	if err := uc.bookingRepo.SetDepositPaid(ctx, booking.ID, *req.Payload.DepositPaidAt); err != nil {
		return fmt.Errorf("%w: failed to set deposit paid: %v", ErrInternal, err)
	}

	effects.notifications = append(effects.notifications, notifier.Notification{
		RecipientID: booking.RequesterID,
		Template:    notifier.TemplateDepositPaid,
		Params: map[string]string{
			"booking_id": fmt.Sprintf("%d", booking.ID),
		},
	})
	return nil
}

// applyCancel отменяет заявку и освобождает удерживаемые ресурсы:
// блок расписания и claim flash-дизайна
func (uc *UseCase) applyCancel(ctx context.Context, booking *domain.Booking, req *Request, effects *SideEffects) error {
	reason := ""
	if req.Payload.CancellationReason != nil {
		reason = *req.Payload.CancellationReason
	}

	if err := uc.bookingRepo.Cancel(ctx, booking.ID, reason); err != nil {
		return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
	}

	// Освобождение блока расписания. Заявка без записи в расписании
	// блок не удерживает
	if booking.HoldsSchedule() {
		block, err := uc.blockRepo.GetByBookingID(ctx, booking.ID)
		switch {
		case err == nil:
			if err := uc.blockRepo.DeleteByBookingID(ctx, booking.ID); err != nil {
				return fmt.Errorf("%w: failed to release time block: %v", ErrInternal, err)
			}
			effects.removedBlockID = &block.ID
		case errors.Is(err, timeblockStorage.ErrBlockNotFound):
			// Блок уже снят вручную
		default:
			return fmt.Errorf("%w: failed to get time block: %v", ErrInternal, err)
		}
	}

	// Снятие claim, только если он всё ещё удерживается этой заявкой
	if booking.FlashPieceID != nil {
		released, err := uc.flashRepo.Release(ctx, *booking.FlashPieceID, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to release flash claim: %v", ErrInternal, err)
		}
		if !released {
			uc.logger.Warn("transition_booking: claim on piece %d is no longer held by booking %d, skipping release",
				*booking.FlashPieceID, booking.ID)
		}
	}

	effects.cancelPending = true
	return nil
}

func (uc *UseCase) updateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if err := uc.bookingRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
	}
	return nil
}

// FlushEffects отправляет уведомления и синхронизирует зеркальный
// календарь. Вызывается только после коммита транзакции перехода;
// ошибки логируются и не влияют на совершённый переход
func (uc *UseCase) FlushEffects(bookingID int64, effects *SideEffects) {
	if effects == nil || effects.empty() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		for _, n := range effects.notifications {
			if err := uc.notification.Send(ctx, n); err != nil {
				uc.logger.Warn("transition_booking: failed to send %s for booking %d: %v", n.Template, bookingID, err)
			}
		}

		if effects.cancelPending {
			if err := uc.notification.CancelPending(ctx, bookingID); err != nil {
				uc.logger.Warn("transition_booking: failed to cancel pending notifications for booking %d: %v", bookingID, err)
			}
		}

		if effects.mirroredBlock != nil {
			event := calendarmirror.MirrorEvent{
				BlockID:     effects.mirroredBlock.ID,
				Date:        effects.mirroredBlock.Date.Format(domain.DateFormat),
				StartTime:   effects.mirroredBlock.StartTime.String(),
				EndTime:     effects.mirroredBlock.EndTime.String(),
				Description: effects.mirrorDescription,
			}
			if err := uc.mirror.PushEvent(ctx, event); err != nil {
				uc.logger.Warn("transition_booking: failed to mirror block %d: %v", effects.mirroredBlock.ID, err)
			}
		}

		if effects.removedBlockID != nil {
			if err := uc.mirror.RemoveEvent(ctx, *effects.removedBlockID); err != nil {
				uc.logger.Warn("transition_booking: failed to remove mirrored block %d: %v", *effects.removedBlockID, err)
			}
		}
	}()
}
