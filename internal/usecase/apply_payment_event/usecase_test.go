package apply_payment_event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needleworks/INK-BookingService/internal/domain"
	paymenteventStorage "github.com/needleworks/INK-BookingService/internal/infra/storage/paymentevent"
	transitionUC "github.com/needleworks/INK-BookingService/internal/usecase/transition_booking"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
)

type stubEventRepo struct {
	exists    bool
	existsErr error
	insertErr error
	inserted  []*domain.ProcessedPaymentEvent
}

func (s *stubEventRepo) Exists(_ context.Context, _ string) (bool, error) {
	return s.exists, s.existsErr
}

func (s *stubEventRepo) Insert(_ context.Context, event *domain.ProcessedPaymentEvent) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, event)
	return nil
}

func (s *stubEventRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type stubBookingRepo struct {
	finalPaidID int64
	finalPaidAt time.Time
	err         error
}

func (s *stubBookingRepo) SetFinalPaymentPaid(_ context.Context, id int64, paidAt time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.finalPaidID = id
	s.finalPaidAt = paidAt
	return nil
}

type stubTransition struct {
	got     *transitionUC.Request
	err     error
	flushed []int64
}

func (s *stubTransition) Execute(_ context.Context, req *transitionUC.Request) (*transitionUC.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &transitionUC.Response{Effects: &transitionUC.SideEffects{}}, nil
}

func (s *stubTransition) FlushEffects(bookingID int64, _ *transitionUC.SideEffects) {
	s.flushed = append(s.flushed, bookingID)
}

type passthroughTxManager struct {
	calls     int
	commitErr error
}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return m.commitErr
}

type stubMetrics struct {
	results []string
}

func (s *stubMetrics) IncPaymentEventResult(result string) {
	s.results = append(s.results, result)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixture struct {
	events     *stubEventRepo
	bookings   *stubBookingRepo
	transition *stubTransition
	tx         *passthroughTxManager
	metrics    *stubMetrics
	uc         *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		events:     &stubEventRepo{},
		bookings:   &stubBookingRepo{},
		transition: &stubTransition{},
		tx:         &passthroughTxManager{},
		metrics:    &stubMetrics{},
	}
	f.uc = NewUseCase(f.events, f.bookings, f.transition, f.tx, f.metrics, noopLogger{})
	return f
}

func depositEvent() *Request {
	return &Request{
		EventID:        "evt_8f2c",
		EventType:      domain.PaymentEventDepositPaid,
		EventCreatedAt: time.Now().Add(-2 * time.Minute),
		BookingID:      12,
	}
}

func TestExecute_AppliesDepositPaid(t *testing.T) {
	f := newFixture()
	req := depositEvent()

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, ResultApplied, resp.Result)

	require.NotNil(t, f.transition.got)
	assert.Equal(t, int64(12), f.transition.got.BookingID)
	assert.Equal(t, domain.StatusConfirmed, f.transition.got.Target)
	assert.Equal(t, domain.RoleLedger, f.transition.got.ActorRole)
	require.NotNil(t, f.transition.got.Payload.DepositPaidAt)
	assert.Equal(t, req.EventCreatedAt, *f.transition.got.Payload.DepositPaidAt)

	require.Len(t, f.events.inserted, 1)
	assert.Equal(t, "evt_8f2c", f.events.inserted[0].EventID)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []string{"applied"}, f.metrics.results)

	// Отложенные эффекты перехода исполнены после коммита ledger-транзакции
	assert.Equal(t, []int64{12}, f.transition.flushed)
}

func TestExecute_AppliesPaymentRequestPaid(t *testing.T) {
	f := newFixture()
	req := depositEvent()
	req.EventType = domain.PaymentEventRequestPaid

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, ResultApplied, resp.Result)
	assert.Equal(t, int64(12), f.bookings.finalPaidID)
	assert.Equal(t, req.EventCreatedAt, f.bookings.finalPaidAt)
	assert.Nil(t, f.transition.got)
}

func TestExecute_DuplicateByFastPath(t *testing.T) {
	f := newFixture()
	f.events.exists = true

	resp, err := f.uc.Execute(context.Background(), depositEvent())

	require.NoError(t, err)
	assert.Equal(t, ResultDuplicate, resp.Result)
	assert.Equal(t, 0, f.tx.calls)
	assert.Nil(t, f.transition.got)
	assert.Equal(t, []string{"duplicate"}, f.metrics.results)
}

func TestExecute_DuplicateByLedgerInsert(t *testing.T) {
	// Гонка двух доставок: Exists пропускает, вставка упирается
	// в ограничение уникальности
	f := newFixture()
	f.events.insertErr = paymenteventStorage.ErrDuplicateEvent

	resp, err := f.uc.Execute(context.Background(), depositEvent())

	require.NoError(t, err)
	assert.Equal(t, ResultDuplicate, resp.Result)
	assert.Equal(t, 1, f.tx.calls)
	assert.Nil(t, f.transition.got)
}

func TestExecute_StaleEventIsNoOp(t *testing.T) {
	f := newFixture()
	req := depositEvent()
	req.EventCreatedAt = time.Now().Add(-domain.PaymentEventFreshnessWindow - time.Hour)

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, ResultStale, resp.Result)
	assert.Empty(t, f.events.inserted)
	assert.Nil(t, f.transition.got)
	assert.Equal(t, []string{"stale"}, f.metrics.results)
}

func TestExecute_UnknownTypeRecordedWithoutEffect(t *testing.T) {
	f := newFixture()
	req := depositEvent()
	req.EventType = "refund.issued"

	resp, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, ResultApplied, resp.Result)
	require.Len(t, f.events.inserted, 1)
	assert.Nil(t, f.transition.got)
	assert.Zero(t, f.bookings.finalPaidID)
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture()
	f.transition.err = transitionUC.ErrBookingNotFound

	_, err := f.uc.Execute(context.Background(), depositEvent())

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_TransitionErrorAbortsTransaction(t *testing.T) {
	f := newFixture()
	f.transition.err = transitionUC.ErrInternal

	_, err := f.uc.Execute(context.Background(), depositEvent())

	assert.ErrorIs(t, err, transitionUC.ErrInternal)
	assert.Empty(t, f.metrics.results)
	assert.Empty(t, f.transition.flushed)
}

// Откат ledger-транзакции не оставляет исполненных эффектов перехода:
// уведомление об оплате не должно уйти по несохраненному событию
func TestExecute_CommitFailureLeavesEffectsUnflushed(t *testing.T) {
	f := newFixture()
	f.tx.commitErr = txmanager.ErrSerialization

	_, err := f.uc.Execute(context.Background(), depositEvent())

	require.Error(t, err)
	assert.Empty(t, f.transition.flushed)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{
			name:   "empty event id",
			mutate: func(req *Request) { req.EventID = "" },
		},
		{
			name:   "empty event type",
			mutate: func(req *Request) { req.EventType = "" },
		},
		{
			name:   "zero created time",
			mutate: func(req *Request) { req.EventCreatedAt = time.Time{} },
		},
		{
			name:   "missing booking id for deposit event",
			mutate: func(req *Request) { req.BookingID = 0 },
		},
		{
			name: "negative booking id for payment request event",
			mutate: func(req *Request) {
				req.EventType = domain.PaymentEventRequestPaid
				req.BookingID = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := depositEvent()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, f.tx.calls)
		})
	}
}
