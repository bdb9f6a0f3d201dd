package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/needleworks/INK-BookingService/internal/domain"
	bookingRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/booking"
	"github.com/needleworks/INK-BookingService/internal/service/bookings/models"
)

// Service сервис чтения и редактирования заявок
// Переходы статусов сюда не входят: их выполняет отдельный usecase
// с таблицей допустимых переходов
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает заявку по ID
// Клиент видит только свои заявки, мастер - все
func (s *Service) GetByID(ctx context.Context, id, actorID int64, role domain.Role) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if role == domain.RoleRequester && booking.RequesterID != actorID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает заявки по фильтру
// Клиенту фильтр принудительно сужается до его собственных заявок
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter from user=%d: %v", req.ActorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.ActorRole == domain.RoleRequester {
		filter.RequesterID = &req.ActorID
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookings(bookings), nil
}

// UpdateContent изменяет содержимое заявки
// Доступно только владельцу и только до рассмотрения мастером
func (s *Service) UpdateContent(ctx context.Context, req *models.UpdateContentRequest) (*models.BookingResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if len(req.Description) > domain.MaxDescriptionLength {
		return nil, fmt.Errorf("%w: description exceeds %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	booking, err := s.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.RequesterID != req.RequesterID {
		s.logger.Warn("UpdateContent: access denied for user=%d to booking id=%d", req.RequesterID, req.BookingID)
		return nil, ErrAccessDenied
	}
	if !booking.IsEditable() {
		s.logger.Warn("UpdateContent: booking id=%d in status %s is not editable", req.BookingID, booking.Status)
		return nil, ErrNotEditable
	}

	booking.Description = req.Description
	booking.Placement = req.Placement
	booking.Size = req.Size
	booking.PreferredDates = req.PreferredDates
	booking.MedicalNotes = req.MedicalNotes

	if err := s.bookingRepo.UpdateContent(ctx, booking); err != nil {
		s.logger.Error("UpdateContent: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: UpdateContent - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateContent: booking id=%d updated by requester %d", req.BookingID, req.RequesterID)
	return models.FromDomainBooking(booking), nil
}

func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return booking, nil
}
