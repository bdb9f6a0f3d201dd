package create_booking

import (
	"context"
	"fmt"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

type UseCase struct {
	bookingRepo BookingRepository
	logger      Logger
}

func NewUseCase(bookingRepo BookingRepository, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Execute создает заявку на индивидуальный эскиз в статусе pending.
// Расписание и деньги на этом этапе не трогаются: слот резервируется
// позже, после одобрения мастером
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Создание заявки
	booking, err := uc.bookingRepo.Create(ctx, &domain.Booking{
		RequesterID:    req.RequesterID,
		Type:           domain.BookingTypeCustom,
		Status:         domain.StatusPending,
		Description:    req.Description,
		Placement:      req.Placement,
		Size:           req.Size,
		PreferredDates: req.PreferredDates,
		MedicalNotes:   req.MedicalNotes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	uc.logger.Info("create_booking: booking %d created by requester %d", booking.ID, booking.RequesterID)

	return &Response{Booking: booking}, nil
}
