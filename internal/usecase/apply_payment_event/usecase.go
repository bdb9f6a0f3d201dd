package apply_payment_event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	paymenteventStorage "github.com/needleworks/INK-BookingService/internal/infra/storage/paymentevent"
	transitionUC "github.com/needleworks/INK-BookingService/internal/usecase/transition_booking"
)

const pruneTimeout = 10 * time.Second

type UseCase struct {
	eventRepo   PaymentEventRepository
	bookingRepo BookingRepository
	transition  TransitionUseCase
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

func NewUseCase(
	eventRepo PaymentEventRepository,
	bookingRepo BookingRepository,
	transition TransitionUseCase,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		transition:  transition,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute применяет платежное событие провайдера ровно один раз.
// Повторная доставка того же event_id и устаревшие события - успешные
// no-op. Доменный эффект и строка ledger фиксируются одной транзакцией:
// частичное применение невозможно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Быстрая проверка дедупликации без транзакции.
	// Авторитетна вставка в ledger на шаге 4: гонка двух доставок
	// решается ограничением уникальности event_id
	exists, err := uc.eventRepo.Exists(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check event: %v", ErrInternal, err)
	}
	if exists {
		return uc.finish(req, ResultDuplicate), nil
	}

	// 3. Проверка свежести: слишком старое событие не применяется
	if time.Since(req.EventCreatedAt) > domain.PaymentEventFreshnessWindow {
		return uc.finish(req, ResultStale), nil
	}

	// 4. Эффект и строка ledger в одной транзакции
	duplicate := false
	var deferred *transitionUC.SideEffects
	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// Повтор транзакции начинает с чистого состояния
		duplicate = false
		deferred = nil

		insertErr := uc.eventRepo.Insert(ctx, &domain.ProcessedPaymentEvent{
			EventID:        req.EventID,
			EventType:      req.EventType,
			EventCreatedAt: req.EventCreatedAt,
		})
		if insertErr != nil {
			if errors.Is(insertErr, paymenteventStorage.ErrDuplicateEvent) {
				duplicate = true
				return nil
			}
			return fmt.Errorf("%w: failed to record event: %v", ErrInternal, insertErr)
		}

		effects, effErr := uc.applyEffect(ctx, req)
		if effErr != nil {
			return effErr
		}
		deferred = effects
		return nil
	})
	if err != nil {
		return nil, err
	}
	if duplicate {
		return uc.finish(req, ResultDuplicate), nil
	}

	// 5. Эффекты перехода исполняются только после коммита
	// ledger-транзакции: откат не должен оставлять отправленных
	// уведомлений
	if deferred != nil {
		uc.transition.FlushEffects(req.BookingID, deferred)
	}

	// 6. Очистка устаревших строк ledger best-effort
	uc.pruneAsync()

	return uc.finish(req, ResultApplied), nil
}

// applyEffect применяет доменный эффект типа события и возвращает
// отложенные эффекты перехода. Неизвестные типы записываются только
// для дедупликации
func (uc *UseCase) applyEffect(ctx context.Context, req *Request) (*transitionUC.SideEffects, error) {
	switch req.EventType {
	case domain.PaymentEventDepositPaid:
		resp, err := uc.transition.Execute(ctx, &transitionUC.Request{
			BookingID: req.BookingID,
			Target:    domain.StatusConfirmed,
			ActorRole: domain.RoleLedger,
			Payload: transitionUC.Payload{
				DepositPaidAt: &req.EventCreatedAt,
			},
		})
		if err != nil {
			if errors.Is(err, transitionUC.ErrBookingNotFound) {
				return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, req.BookingID)
			}
			return nil, err
		}
		return resp.Effects, nil

	case domain.PaymentEventRequestPaid:
		if err := uc.bookingRepo.SetFinalPaymentPaid(ctx, req.BookingID, req.EventCreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to mark payment request paid: %v", ErrInternal, err)
		}
		return nil, nil
	}

	uc.logger.Info("apply_payment_event: event %s has unrecognized type %q, recorded without effect",
		req.EventID, req.EventType)
	return nil, nil
}

func (uc *UseCase) finish(req *Request, result Result) *Response {
	uc.metrics.IncPaymentEventResult(string(result))
	uc.logger.Info("apply_payment_event: event %s (%s) -> %s", req.EventID, req.EventType, result)
	return &Response{Result: result}
}

// pruneAsync удаляет строки ledger старше срока хранения. Очистка
// best-effort: её неудача не влияет на корректность дедупликации
func (uc *UseCase) pruneAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
		defer cancel()

		cutoff := time.Now().Add(-domain.PaymentEventRetention)
		deleted, err := uc.eventRepo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			uc.logger.Warn("apply_payment_event: ledger pruning failed: %v", err)
			return
		}
		if deleted > 0 {
			uc.logger.Info("apply_payment_event: pruned %d ledger rows older than %s",
				deleted, cutoff.Format(time.RFC3339))
		}
	}()
}
