package reserve_slot

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needleworks/INK-BookingService/internal/domain"
	bookStorage "github.com/needleworks/INK-BookingService/internal/infra/storage/book"
	"github.com/needleworks/INK-BookingService/internal/integrations/calendarmirror"
	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

type stubBookRepo struct {
	err error
}

func (s *stubBookRepo) GetByID(_ context.Context, id int64) (*domain.Book, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Book{ID: id, Active: true}, nil
}

type stubBlockRepo struct {
	overlapping []*domain.TimeBlock
	overlapErr  error
	created     *domain.TimeBlock
	createErr   error
}

func (s *stubBlockRepo) GetOverlapping(_ context.Context, _ int64, _ time.Time, _, _ types.TimeString) ([]*domain.TimeBlock, error) {
	return s.overlapping, s.overlapErr
}

func (s *stubBlockRepo) Create(_ context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	block.ID = 101
	s.created = block
	return block, nil
}

type stubAvailability struct {
	slot *domain.Slot
	err  error

	gotDuration int
}

func (s *stubAvailability) EarliestSlot(_ context.Context, req *availabilityUC.Request) (*domain.Slot, error) {
	s.gotDuration = req.DurationMinutes
	return s.slot, s.err
}

type stubMirror struct {
	pushed chan calendarmirror.MirrorEvent
}

func newStubMirror() *stubMirror {
	return &stubMirror{pushed: make(chan calendarmirror.MirrorEvent, 1)}
}

func (s *stubMirror) PushEvent(_ context.Context, event calendarmirror.MirrorEvent) error {
	s.pushed <- event
	return nil
}

// passthroughTxManager выполняет fn напрямую либо возвращает
// подготовленную ошибку, имитируя исход транзакции
type passthroughTxManager struct {
	err error
}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type stubMetrics struct {
	outcomes []string
}

func (s *stubMetrics) IncReservationOutcome(outcome string) {
	s.outcomes = append(s.outcomes, outcome)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

func validRequest() *Request {
	return &Request{
		BookID:      1,
		Date:        testDate,
		StartTime:   "10:00",
		EndTime:     "12:00",
		Description: "Консультация",
	}
}

func TestExecute_ReservesFreeSlot(t *testing.T) {
	blocks := &stubBlockRepo{}
	mirror := newStubMirror()
	metrics := &stubMetrics{}

	uc := NewUseCase(&stubBookRepo{}, blocks, &stubAvailability{}, mirror, &passthroughTxManager{}, metrics, noopLogger{})

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotNil(t, resp.Block)
	assert.Equal(t, domain.BlockTypeManual, resp.Block.Type)
	assert.Nil(t, resp.Block.BookingID)
	assert.Equal(t, []string{"reserved"}, metrics.outcomes)

	select {
	case event := <-mirror.pushed:
		assert.Equal(t, "2026-03-16", event.Date)
		assert.Equal(t, "10:00", event.StartTime)
		assert.Equal(t, "Консультация", event.Description)
	case <-time.After(time.Second):
		t.Fatal("mirror event was not pushed")
	}
}

func TestExecute_BookingBlockType(t *testing.T) {
	blocks := &stubBlockRepo{}
	uc := NewUseCase(&stubBookRepo{}, blocks, &stubAvailability{}, newStubMirror(), &passthroughTxManager{}, &stubMetrics{}, noopLogger{})

	req := validRequest()
	bookingID := int64(7)
	req.BookingID = &bookingID

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.BlockTypeAppointment, resp.Block.Type)
	require.NotNil(t, resp.Block.BookingID)
	assert.Equal(t, int64(7), *resp.Block.BookingID)
}

func TestExecute_ConflictReturnsAlternative(t *testing.T) {
	blocks := &stubBlockRepo{overlapping: []*domain.TimeBlock{{ID: 5}}}
	availability := &stubAvailability{slot: &domain.Slot{StartTime: "14:00", EndTime: "16:00", DurationMinutes: 120}}
	metrics := &stubMetrics{}

	uc := NewUseCase(&stubBookRepo{}, blocks, availability, newStubMirror(), &passthroughTxManager{}, metrics, noopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotTaken)

	var taken *SlotTakenError
	require.ErrorAs(t, err, &taken)
	require.NotNil(t, taken.Alternative)
	assert.Equal(t, types.TimeString("14:00"), taken.Alternative.StartTime)

	// Альтернатива ищется под длительность исходного запроса
	assert.Equal(t, 120, availability.gotDuration)
	assert.Equal(t, []string{"conflict"}, metrics.outcomes)
}

func TestExecute_ConflictWithoutAlternative(t *testing.T) {
	blocks := &stubBlockRepo{overlapping: []*domain.TimeBlock{{ID: 5}}}
	uc := NewUseCase(&stubBookRepo{}, blocks, &stubAvailability{}, newStubMirror(), &passthroughTxManager{}, &stubMetrics{}, noopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotTaken)

	var taken *SlotTakenError
	require.ErrorAs(t, err, &taken)
	assert.Nil(t, taken.Alternative)
}

// Проигранная сериализация - это проигранная гонка за слот,
// для клиента неотличимая от обычного конфликта
func TestExecute_SerializationConflictIsSlotTaken(t *testing.T) {
	metrics := &stubMetrics{}
	uc := NewUseCase(
		&stubBookRepo{},
		&stubBlockRepo{},
		&stubAvailability{slot: &domain.Slot{StartTime: "15:00", EndTime: "17:00", DurationMinutes: 120}},
		newStubMirror(),
		&passthroughTxManager{err: txmanager.ErrSerialization},
		metrics,
		noopLogger{},
	)

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, []string{"serialization_conflict"}, metrics.outcomes)
}

// Внутри объемлющей транзакции блок не зеркалируется сразу:
// событие публикует вызывающая сторона после её коммита
func TestExecute_InsideTransactionDefersMirror(t *testing.T) {
	mirror := newStubMirror()
	uc := NewUseCase(&stubBookRepo{}, &stubBlockRepo{}, &stubAvailability{}, mirror, &passthroughTxManager{}, &stubMetrics{}, noopLogger{})

	ctx := txmanager.ContextWithTx(context.Background(), &sql.Tx{})
	resp, err := uc.Execute(ctx, validRequest())

	require.NoError(t, err)
	require.NotNil(t, resp.Block)

	select {
	case <-mirror.pushed:
		t.Fatal("mirror event was pushed before the enclosing transaction committed")
	case <-time.After(50 * time.Millisecond):
	}
}

// serialTxManager исполняет транзакции строго по одной, как
// сериализуемый уровень изоляции упорядочивает пересекающиеся записи
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// memoryBlockRepo хранит блоки в памяти и ищет пересечения
// полуоткрытых интервалов так же, как это делает SQL-запрос
type memoryBlockRepo struct {
	mu     sync.Mutex
	nextID int64
	blocks []*domain.TimeBlock
}

func (r *memoryBlockRepo) GetOverlapping(_ context.Context, bookID int64, date time.Time, start, end types.TimeString) ([]*domain.TimeBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TimeBlock
	for _, b := range r.blocks {
		if b.BookID == bookID && b.Date.Equal(date) && b.StartTime < end && start < b.EndTime {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memoryBlockRepo) Create(_ context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	block.ID = r.nextID
	r.blocks = append(r.blocks, block)
	return block, nil
}

type noAlternativeAvailability struct{}

func (noAlternativeAvailability) EarliestSlot(context.Context, *availabilityUC.Request) (*domain.Slot, error) {
	return nil, nil
}

type safeMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (s *safeMetrics) IncReservationOutcome(outcome string) {
	s.mu.Lock()
	s.outcomes = append(s.outcomes, outcome)
	s.mu.Unlock()
}

// Гонка конкурентных резервирований одного слота: выигрывает ровно
// одно, остальные получают конфликт
func TestExecute_ConcurrentReservations(t *testing.T) {
	blocks := &memoryBlockRepo{}
	uc := NewUseCase(&stubBookRepo{}, blocks, noAlternativeAvailability{}, newStubMirror(), &serialTxManager{}, &safeMetrics{}, noopLogger{})

	const workers = 16
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	reserved, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			reserved++
		case errors.Is(err, ErrSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, reserved)
	assert.Equal(t, workers-1, conflicts)

	overlapping, err := blocks.GetOverlapping(context.Background(), 1, testDate, "10:00", "12:00")
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)
}

func TestExecute_BookNotFound(t *testing.T) {
	uc := NewUseCase(&stubBookRepo{err: bookStorage.ErrBookNotFound}, &stubBlockRepo{}, &stubAvailability{}, newStubMirror(), &passthroughTxManager{}, &stubMetrics{}, noopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&stubBookRepo{}, &stubBlockRepo{}, &stubAvailability{}, newStubMirror(), &passthroughTxManager{}, &stubMetrics{}, noopLogger{})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{name: "zero book id", mutate: func(r *Request) { r.BookID = 0 }},
		{name: "zero date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "bad start time", mutate: func(r *Request) { r.StartTime = "25:00" }},
		{name: "bad end time", mutate: func(r *Request) { r.EndTime = "" }},
		{name: "start equals end", mutate: func(r *Request) { r.EndTime = r.StartTime }},
		{name: "start after end", mutate: func(r *Request) { r.StartTime = "14:00"; r.EndTime = "12:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_InternalErrorPassesThrough(t *testing.T) {
	infra := errors.New("connection reset")
	uc := NewUseCase(&stubBookRepo{}, &stubBlockRepo{overlapErr: infra}, &stubAvailability{}, newStubMirror(), &passthroughTxManager{}, &stubMetrics{}, noopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrSlotTaken)
}
