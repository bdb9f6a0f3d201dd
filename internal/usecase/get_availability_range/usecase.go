package get_availability_range

import (
	"context"
	"errors"
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
)

// UseCase use case проверки доступности за период дат
type UseCase struct {
	availability AvailabilityUseCase
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availability AvailabilityUseCase, logger Logger) *UseCase {
	return &UseCase{
		availability: availability,
		logger:       logger,
	}
}

// Execute выполняет дневную проверку для каждой даты периода
// Кэширования между датами нет намеренно: данные могут измениться
// между вызовами, каждая дата считается по актуальному состоянию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailabilityRange: book=%d, range=%s..%s, duration=%d",
		req.BookID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailabilityRange: validation failed: %v", err)
		return nil, err
	}

	// 2. Обходим период по календарным дням
	days := make(map[string]bool)
	for date := req.StartDate; !date.After(req.EndDate); date = date.AddDate(0, 0, 1) {
		dayResp, err := uc.availability.Execute(ctx, &availabilityUC.Request{
			BookID:          req.BookID,
			Date:            date,
			DurationMinutes: req.DurationMinutes,
		})
		if err != nil {
			if errors.Is(err, availabilityUC.ErrBookNotFound) {
				return nil, ErrBookNotFound
			}
			uc.logger.Error("GetAvailabilityRange: day %s failed: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to check date %s: %v", ErrInternal, date.Format(domain.DateFormat), err)
		}

		days[date.Format(domain.DateFormat)] = len(dayResp.Slots) > 0
	}

	uc.logger.Info("GetAvailabilityRange: checked %d days for book=%d", len(days), req.BookID)

	return &Response{
		BookID:          req.BookID,
		DurationMinutes: req.DurationMinutes,
		Days:            days,
	}, nil
}
