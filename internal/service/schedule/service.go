package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	bookRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/book"
	timeblockRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/timeblock"
	"github.com/needleworks/INK-BookingService/internal/service/schedule/models"
	"github.com/needleworks/INK-BookingService/internal/usecase/reserve_slot"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

const mirrorRemoveTimeout = 5 * time.Second

// Service сервис управления расписанием мастера: книги записи,
// исключения на даты и ручные блоки
type Service struct {
	bookRepo      BookRepository
	exceptionRepo ExceptionRepository
	blockRepo     TimeBlockRepository
	reserver      SlotReserver
	mirror        CalendarMirror
	logger        Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	bookRepo BookRepository,
	exceptionRepo ExceptionRepository,
	blockRepo TimeBlockRepository,
	reserver SlotReserver,
	mirror CalendarMirror,
	logger Logger,
) *Service {
	return &Service{
		bookRepo:      bookRepo,
		exceptionRepo: exceptionRepo,
		blockRepo:     blockRepo,
		reserver:      reserver,
		mirror:        mirror,
		logger:        logger,
	}
}

// CreateBook создает книгу записи с недельным расписанием
func (s *Service) CreateBook(ctx context.Context, req *models.CreateBookRequest) (*models.BookResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	bookType := domain.BookType(req.Type)
	if bookType != domain.BookTypeCustom && bookType != domain.BookTypeFlash {
		return nil, fmt.Errorf("%w: unknown book type %q", ErrInvalidInput, req.Type)
	}
	if req.DepositAmount < 0 {
		return nil, fmt.Errorf("%w: deposit amount must not be negative", ErrInvalidInput)
	}

	hours, err := models.ToDomainHours(req.Hours)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hours: %v", ErrInvalidInput, err)
	}

	opensOn, err := parseOptionalDate(req.OpensOn)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid opensOn: %v", ErrInvalidInput, err)
	}
	closesOn, err := parseOptionalDate(req.ClosesOn)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid closesOn: %v", ErrInvalidInput, err)
	}

	book, err := s.bookRepo.Create(ctx, &domain.Book{
		Name:          req.Name,
		Type:          bookType,
		Active:        true,
		OpensOn:       opensOn,
		ClosesOn:      closesOn,
		DepositAmount: req.DepositAmount,
		Hours:         hours,
	})
	if err != nil {
		s.logger.Error("CreateBook: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBook - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBook: book %d (%s) created", book.ID, book.Name)
	return models.FromDomainBook(book), nil
}

// GetBook получает книгу записи по ID
func (s *Service) GetBook(ctx context.Context, id int64) (*models.BookResponse, error) {
	book, err := s.getBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBook(book), nil
}

// ListBooks возвращает книги записи
func (s *Service) ListBooks(ctx context.Context, activeOnly bool) (*models.BookListResponse, error) {
	books, err := s.bookRepo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("ListBooks: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBooks - repository error: %v", ErrInternal, err)
	}

	resp := &models.BookListResponse{
		Books: make([]*models.BookResponse, 0, len(books)),
		Total: len(books),
	}
	for _, b := range books {
		resp.Books = append(resp.Books, models.FromDomainBook(b))
	}
	return resp, nil
}

// UpdateBook обновляет книгу записи и её недельное расписание
// Существующие блоки при смене часов не трогаются
func (s *Service) UpdateBook(ctx context.Context, req *models.UpdateBookRequest) (*models.BookResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	book, err := s.getBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	hours, err := models.ToDomainHours(req.Hours)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hours: %v", ErrInvalidInput, err)
	}
	opensOn, err := parseOptionalDate(req.OpensOn)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid opensOn: %v", ErrInvalidInput, err)
	}
	closesOn, err := parseOptionalDate(req.ClosesOn)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid closesOn: %v", ErrInvalidInput, err)
	}

	book.Name = req.Name
	book.Active = req.Active
	book.OpensOn = opensOn
	book.ClosesOn = closesOn
	book.DepositAmount = req.DepositAmount
	book.Hours = hours

	if err := s.bookRepo.Update(ctx, book); err != nil {
		s.logger.Error("UpdateBook: repository error for book id=%d: %v", req.BookID, err)
		return nil, fmt.Errorf("%w: UpdateBook - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateBook: book %d updated", req.BookID)
	return models.FromDomainBook(book), nil
}

// SetException переопределяет расписание на дату: закрытый день
// или особые часы. Повторный вызов на ту же дату заменяет исключение
func (s *Service) SetException(ctx context.Context, req *models.SetExceptionRequest) (*models.ExceptionResponse, error) {
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}
	if _, err := s.getBook(ctx, req.BookID); err != nil {
		return nil, err
	}

	exc := &domain.DayException{
		BookID: req.BookID,
		Date:   date,
		Closed: req.Closed,
	}

	if !req.Closed {
		if req.OpenTime == nil || req.CloseTime == nil {
			return nil, fmt.Errorf("%w: custom hours require open and close times", ErrInvalidInput)
		}
		open := types.TimeString(*req.OpenTime)
		closeTime := types.TimeString(*req.CloseTime)
		if err := open.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid open time: %v", ErrInvalidInput, err)
		}
		if err := closeTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid close time: %v", ErrInvalidInput, err)
		}
		if !open.IsBefore(closeTime) {
			return nil, fmt.Errorf("%w: open time must be before close time", ErrInvalidInput)
		}
		exc.OpenTime = &open
		exc.CloseTime = &closeTime
	}

	saved, err := s.exceptionRepo.Upsert(ctx, exc)
	if err != nil {
		s.logger.Error("SetException: repository error for book id=%d: %v", req.BookID, err)
		return nil, fmt.Errorf("%w: SetException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetException: book %d date %s closed=%v", req.BookID, req.Date, req.Closed)
	return models.FromDomainException(saved), nil
}

// RemoveException снимает переопределение расписания с даты
func (s *Service) RemoveException(ctx context.Context, bookID int64, dateStr string) error {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, dateStr)
	}

	if err := s.exceptionRepo.DeleteByBookAndDate(ctx, bookID, date); err != nil {
		s.logger.Error("RemoveException: repository error for book id=%d: %v", bookID, err)
		return fmt.Errorf("%w: RemoveException - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveException: book %d date %s", bookID, dateStr)
	return nil
}

// ListExceptions возвращает исключения книги за период
func (s *Service) ListExceptions(ctx context.Context, bookID int64, startStr, endStr string) (*models.ExceptionListResponse, error) {
	start, err := time.Parse(domain.DateFormat, startStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", ErrInvalidInput, startStr)
	}
	end, err := time.Parse(domain.DateFormat, endStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", ErrInvalidInput, endStr)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	exceptions, err := s.exceptionRepo.GetByBookAndRange(ctx, bookID, start, end)
	if err != nil {
		s.logger.Error("ListExceptions: repository error for book id=%d: %v", bookID, err)
		return nil, fmt.Errorf("%w: ListExceptions - repository error: %v", ErrInternal, err)
	}

	resp := &models.ExceptionListResponse{
		Exceptions: make([]*models.ExceptionResponse, 0, len(exceptions)),
		Total:      len(exceptions),
	}
	for _, e := range exceptions {
		resp.Exceptions = append(resp.Exceptions, models.FromDomainException(e))
	}
	return resp, nil
}

// CreateManualBlock ставит ручной блок мастера в расписание
// Блок проходит общий путь резервирования и не может пересечься
// с записями клиентов
func (s *Service) CreateManualBlock(ctx context.Context, req *models.CreateManualBlockRequest) (*models.TimeBlockResponse, error) {
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, req.Date)
	}

	resp, err := s.reserver.Execute(ctx, &reserve_slot.Request{
		BookID:      req.BookID,
		Date:        date,
		StartTime:   types.TimeString(req.StartTime),
		EndTime:     types.TimeString(req.EndTime),
		Description: req.Description,
	})
	if err != nil {
		// Конфликт и ошибки валидации уходят наверх как есть
		return nil, err
	}

	s.logger.Info("CreateManualBlock: block %d on book %d at %s %s-%s",
		resp.Block.ID, req.BookID, req.Date, req.StartTime, req.EndTime)
	return models.FromDomainBlock(resp.Block), nil
}

// DeleteManualBlock убирает ручной блок из расписания
// Блоки записей клиентов освобождаются только отменой заявки
func (s *Service) DeleteManualBlock(ctx context.Context, bookID, blockID int64, dateStr string) error {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrInvalidInput, dateStr)
	}

	blocks, err := s.blockRepo.GetByBookAndDate(ctx, bookID, date)
	if err != nil {
		s.logger.Error("DeleteManualBlock: repository error for book id=%d: %v", bookID, err)
		return fmt.Errorf("%w: DeleteManualBlock - repository error: %v", ErrInternal, err)
	}

	var target *domain.TimeBlock
	for _, b := range blocks {
		if b.ID == blockID {
			target = b
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: id %d", ErrBlockNotFound, blockID)
	}
	if target.Type != domain.BlockTypeManual {
		return fmt.Errorf("%w: id %d", ErrBlockNotManual, blockID)
	}

	if err := s.blockRepo.Delete(ctx, blockID); err != nil {
		if errors.Is(err, timeblockRepo.ErrBlockNotFound) {
			return fmt.Errorf("%w: id %d", ErrBlockNotFound, blockID)
		}
		s.logger.Error("DeleteManualBlock: repository error for block id=%d: %v", blockID, err)
		return fmt.Errorf("%w: DeleteManualBlock - repository error: %v", ErrInternal, err)
	}

	s.removeMirrorEvent(blockID)
	s.logger.Info("DeleteManualBlock: block %d removed from book %d", blockID, bookID)
	return nil
}

// GetDaySchedule возвращает все блоки книги на дату
func (s *Service) GetDaySchedule(ctx context.Context, bookID int64, dateStr string) (*models.DayScheduleResponse, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, dateStr)
	}

	blocks, err := s.blockRepo.GetByBookAndDate(ctx, bookID, date)
	if err != nil {
		s.logger.Error("GetDaySchedule: repository error for book id=%d: %v", bookID, err)
		return nil, fmt.Errorf("%w: GetDaySchedule - repository error: %v", ErrInternal, err)
	}

	resp := &models.DayScheduleResponse{
		BookID: bookID,
		Date:   dateStr,
		Blocks: make([]*models.TimeBlockResponse, 0, len(blocks)),
	}
	for _, b := range blocks {
		resp.Blocks = append(resp.Blocks, models.FromDomainBlock(b))
	}
	return resp, nil
}

func (s *Service) getBook(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookRepo.ErrBookNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, id)
		}
		s.logger.Error("getBook: repository error for book id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return book, nil
}

// removeMirrorEvent чистит зеркальный календарь best-effort
func (s *Service) removeMirrorEvent(blockID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorRemoveTimeout)
		defer cancel()

		if err := s.mirror.RemoveEvent(ctx, blockID); err != nil {
			s.logger.Warn("removeMirrorEvent: failed to remove mirrored block %d: %v", blockID, err)
		}
	}()
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, *s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
