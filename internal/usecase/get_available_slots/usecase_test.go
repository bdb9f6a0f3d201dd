package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needleworks/INK-BookingService/internal/domain"
	bookRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/book"
	excRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/exception"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

type stubBookRepo struct {
	book *domain.Book
	err  error
}

func (s *stubBookRepo) GetByID(_ context.Context, _ int64) (*domain.Book, error) {
	return s.book, s.err
}

type stubBlockRepo struct {
	blocks []*domain.TimeBlock
	err    error
}

func (s *stubBlockRepo) GetByBookAndDate(_ context.Context, _ int64, _ time.Time) ([]*domain.TimeBlock, error) {
	return s.blocks, s.err
}

type stubExcRepo struct {
	exc *domain.DayException
	err error
}

func (s *stubExcRepo) GetByBookAndDate(_ context.Context, _ int64, _ time.Time) (*domain.DayException, error) {
	if s.exc == nil && s.err == nil {
		return nil, excRepo.ErrExceptionNotFound
	}
	return s.exc, s.err
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Понедельник
var testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

func activeBook() *domain.Book {
	return &domain.Book{
		ID:     1,
		Name:   "Мария",
		Type:   domain.BookTypeCustom,
		Active: true,
		Hours: map[time.Weekday]domain.DayHours{
			time.Monday: {Open: "09:00", Close: "17:00"},
		},
	}
}

func block(start, end types.TimeString) *domain.TimeBlock {
	return &domain.TimeBlock{
		BookID:    1,
		Date:      testDate,
		StartTime: start,
		EndTime:   end,
		Type:      domain.BlockTypeManual,
	}
}

func newTestUseCase(books *stubBookRepo, blocks *stubBlockRepo, excs *stubExcRepo) *UseCase {
	return NewUseCase(books, blocks, excs, noopLogger{})
}

func TestExecute_SplitsDayAroundBlock(t *testing.T) {
	uc := newTestUseCase(
		&stubBookRepo{book: activeBook()},
		&stubBlockRepo{blocks: []*domain.TimeBlock{block("12:00", "13:00")}},
		&stubExcRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 120,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, domain.Slot{StartTime: "09:00", EndTime: "12:00", DurationMinutes: 180}, resp.Slots[0])
	assert.Equal(t, domain.Slot{StartTime: "13:00", EndTime: "17:00", DurationMinutes: 240}, resp.Slots[1])
}

// Запись на 5 часов не помещается ни в один из промежутков по бокам
// часового блока в середине дня
func TestExecute_DurationFiltersSlots(t *testing.T) {
	uc := newTestUseCase(
		&stubBookRepo{book: activeBook()},
		&stubBlockRepo{blocks: []*domain.TimeBlock{block("12:00", "13:00")}},
		&stubExcRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 300,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_FreeDayIsSingleSlot(t *testing.T) {
	uc := newTestUseCase(
		&stubBookRepo{book: activeBook()},
		&stubBlockRepo{},
		&stubExcRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, domain.Slot{StartTime: "09:00", EndTime: "17:00", DurationMinutes: 480}, resp.Slots[0])
}

// Блоки встык не оставляют промежутка, но и не конфликтуют между собой
func TestExecute_AdjacentBlocks(t *testing.T) {
	uc := newTestUseCase(
		&stubBookRepo{book: activeBook()},
		&stubBlockRepo{blocks: []*domain.TimeBlock{
			block("10:00", "12:00"),
			block("12:00", "14:00"),
		}},
		&stubExcRepo{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].EndTime)
	assert.Equal(t, types.TimeString("14:00"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("17:00"), resp.Slots[1].EndTime)
}

func TestExecute_UnconfiguredWeekday(t *testing.T) {
	// Воскресенье не сконфигурировано
	sunday := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(&stubBookRepo{book: activeBook()}, &stubBlockRepo{}, &stubExcRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            sunday,
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ClosedException(t *testing.T) {
	uc := newTestUseCase(
		&stubBookRepo{book: activeBook()},
		&stubBlockRepo{},
		&stubExcRepo{exc: &domain.DayException{BookID: 1, Date: testDate, Closed: true}},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

// Особые часы исключения полностью замещают недельное расписание
func TestExecute_CustomHoursException(t *testing.T) {
	openAt := types.TimeString("12:00")
	closeAt := types.TimeString("15:00")

	uc := newTestUseCase(
		&stubBookRepo{book: activeBook()},
		&stubBlockRepo{},
		&stubExcRepo{exc: &domain.DayException{
			BookID:    1,
			Date:      testDate,
			OpenTime:  &openAt,
			CloseTime: &closeAt,
		}},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, domain.Slot{StartTime: "12:00", EndTime: "15:00", DurationMinutes: 180}, resp.Slots[0])
}

func TestExecute_InactiveBook(t *testing.T) {
	book := activeBook()
	book.Active = false

	uc := newTestUseCase(&stubBookRepo{book: book}, &stubBlockRepo{}, &stubExcRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DateOutsideBookingWindow(t *testing.T) {
	book := activeBook()
	closesOn := testDate.AddDate(0, 0, -1)
	book.ClosesOn = &closesOn

	uc := newTestUseCase(&stubBookRepo{book: book}, &stubBlockRepo{}, &stubExcRepo{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_BookNotFound(t *testing.T) {
	uc := newTestUseCase(&stubBookRepo{err: bookRepo.ErrBookNotFound}, &stubBlockRepo{}, &stubExcRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		BookID:          42,
		Date:            testDate,
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&stubBookRepo{book: activeBook()}, &stubBlockRepo{}, &stubExcRepo{})

	_, err := uc.Execute(context.Background(), &Request{BookID: 0, Date: testDate, DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookID: 1, DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookID: 1, Date: testDate, DurationMinutes: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: domain.MaxAppointmentDurationMinutes + 1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// EarliestSlot урезает первый свободный промежуток ровно до
// запрошенной длительности
func TestEarliestSlot(t *testing.T) {
	uc := newTestUseCase(
		&stubBookRepo{book: activeBook()},
		&stubBlockRepo{blocks: []*domain.TimeBlock{block("09:00", "10:30")}},
		&stubExcRepo{},
	)

	slot, err := uc.EarliestSlot(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 90,
	})

	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, types.TimeString("10:30"), slot.StartTime)
	assert.Equal(t, types.TimeString("12:00"), slot.EndTime)
	assert.Equal(t, 90, slot.DurationMinutes)
}

func TestEarliestSlot_NoAvailability(t *testing.T) {
	uc := newTestUseCase(
		&stubBookRepo{book: activeBook()},
		&stubBlockRepo{blocks: []*domain.TimeBlock{block("09:00", "17:00")}},
		&stubExcRepo{},
	)

	slot, err := uc.EarliestSlot(context.Background(), &Request{
		BookID:          1,
		Date:            testDate,
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Nil(t, slot)
}
