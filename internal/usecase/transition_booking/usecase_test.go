package transition_booking

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needleworks/INK-BookingService/internal/domain"
	timeblockStorage "github.com/needleworks/INK-BookingService/internal/infra/storage/timeblock"
	"github.com/needleworks/INK-BookingService/internal/integrations/calendarmirror"
	"github.com/needleworks/INK-BookingService/internal/integrations/notifier"
	"github.com/needleworks/INK-BookingService/internal/usecase/reserve_slot"
	"github.com/needleworks/INK-BookingService/pkg/ptr"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// fakeBookingRepo хранит одну заявку в памяти и применяет к ней
// изменения так же, как это делал бы репозиторий
type fakeBookingRepo struct {
	booking *domain.Booking
	getErr  error
}

func (f *fakeBookingRepo) GetByID(_ context.Context, _ int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ int64, status domain.BookingStatus) error {
	f.booking.Status = status
	return nil
}

func (f *fakeBookingRepo) UpdateApproval(_ context.Context, _ int64, durationMinutes int, depositAmount, totalAmount float64) error {
	f.booking.Status = domain.StatusApproved
	f.booking.DurationMinutes = &durationMinutes
	f.booking.DepositAmount = &depositAmount
	f.booking.TotalAmount = &totalAmount
	return nil
}

func (f *fakeBookingRepo) UpdateSchedule(_ context.Context, _ int64, bookID int64, date time.Time, start, end types.TimeString) error {
	f.booking.Status = domain.StatusAwaitingDeposit
	f.booking.BookID = &bookID
	f.booking.AppointmentDate = &date
	f.booking.StartTime = &start
	f.booking.EndTime = &end
	return nil
}

func (f *fakeBookingRepo) UpdateNotes(_ context.Context, _ int64, notes string) error {
	f.booking.Notes = &notes
	return nil
}

func (f *fakeBookingRepo) SetDepositPaid(_ context.Context, _ int64, paidAt time.Time) error {
	f.booking.Status = domain.StatusConfirmed
	f.booking.DepositPaidAt = &paidAt
	return nil
}

func (f *fakeBookingRepo) Decline(_ context.Context, _ int64, reason string) error {
	f.booking.Status = domain.StatusDeclined
	f.booking.DeclineReason = &reason
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, _ int64, reason string) error {
	f.booking.Status = domain.StatusCancelled
	f.booking.CancellationReason = &reason
	return nil
}

type fakeBlockRepo struct {
	block   *domain.TimeBlock
	deleted bool
}

func (f *fakeBlockRepo) GetByBookingID(_ context.Context, _ int64) (*domain.TimeBlock, error) {
	if f.block == nil {
		return nil, timeblockStorage.ErrBlockNotFound
	}
	return f.block, nil
}

func (f *fakeBlockRepo) DeleteByBookingID(_ context.Context, _ int64) error {
	f.deleted = true
	f.block = nil
	return nil
}

type fakeFlashRepo struct {
	released     bool
	releaseCalls int
	heldByOther  bool
}

func (f *fakeFlashRepo) Release(_ context.Context, _, _ int64) (bool, error) {
	f.releaseCalls++
	if f.heldByOther {
		return false, nil
	}
	f.released = true
	return true, nil
}

type stubReserver struct {
	err error
	got *reserve_slot.Request
}

func (s *stubReserver) Execute(_ context.Context, req *reserve_slot.Request) (*reserve_slot.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &reserve_slot.Response{Block: &domain.TimeBlock{ID: 301, BookingID: req.BookingID}}, nil
}

type recordingNotifier struct {
	sent      chan notifier.Notification
	cancelled chan int64
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		sent:      make(chan notifier.Notification, 4),
		cancelled: make(chan int64, 1),
	}
}

func (r *recordingNotifier) Send(_ context.Context, n notifier.Notification) error {
	r.sent <- n
	return nil
}

func (r *recordingNotifier) CancelPending(_ context.Context, bookingID int64) error {
	r.cancelled <- bookingID
	return nil
}

type stubMirror struct {
	pushed  chan calendarmirror.MirrorEvent
	removed chan int64
}

func newStubMirror() *stubMirror {
	return &stubMirror{
		pushed:  make(chan calendarmirror.MirrorEvent, 1),
		removed: make(chan int64, 1),
	}
}

func (s *stubMirror) PushEvent(_ context.Context, event calendarmirror.MirrorEvent) error {
	s.pushed <- event
	return nil
}

func (s *stubMirror) RemoveEvent(_ context.Context, blockID int64) error {
	s.removed <- blockID
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

var testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

type fixture struct {
	bookings *fakeBookingRepo
	blocks   *fakeBlockRepo
	flash    *fakeFlashRepo
	reserver *stubReserver
	notifier *recordingNotifier
	mirror   *stubMirror
}

func newFixture(booking *domain.Booking) *fixture {
	return &fixture{
		bookings: &fakeBookingRepo{booking: booking},
		blocks:   &fakeBlockRepo{},
		flash:    &fakeFlashRepo{},
		reserver: &stubReserver{},
		notifier: newRecordingNotifier(),
		mirror:   newStubMirror(),
	}
}

func (f *fixture) useCase() *UseCase {
	return NewUseCase(f.bookings, f.blocks, f.flash, f.reserver, f.notifier, f.mirror, passthroughTxManager{}, noopLogger{})
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:          12,
		RequesterID: 9,
		Type:        domain.BookingTypeCustom,
		Status:      domain.StatusPending,
		Description: "Рукав с пионами",
	}
}

func expectNotification(t *testing.T, f *fixture, template string) notifier.Notification {
	t.Helper()
	select {
	case n := <-f.notifier.sent:
		assert.Equal(t, template, n.Template)
		return n
	case <-time.After(time.Second):
		t.Fatalf("notification %s was not sent", template)
		return notifier.Notification{}
	}
}

func TestExecute_Approve(t *testing.T) {
	f := newFixture(pendingBooking())

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusApproved,
		ActorID:   2,
		ActorRole: domain.RoleProvider,
		Payload: Payload{
			DurationMinutes: ptr.Ptr(180),
			DepositAmount:   ptr.Ptr(100.0),
			TotalAmount:     ptr.Ptr(450.0),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, resp.Booking.Status)
	assert.Equal(t, 180, *resp.Booking.DurationMinutes)
	assert.Equal(t, 450.0, *resp.Booking.TotalAmount)

	expectNotification(t, f, notifier.TemplateBookingApproved)
}

func TestExecute_ApproveRequiresTerms(t *testing.T) {
	f := newFixture(pendingBooking())

	_, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusApproved,
		ActorID:   2,
		ActorRole: domain.RoleProvider,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InfoRequestLoop(t *testing.T) {
	f := newFixture(pendingBooking())

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusInfoRequested,
		ActorID:   2,
		ActorRole: domain.RoleProvider,
		Payload:   Payload{Note: ptr.Ptr("Какой размер и место?")},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInfoRequested, resp.Booking.Status)
	require.NotNil(t, resp.Booking.Notes)

	expectNotification(t, f, notifier.TemplateInfoRequested)

	// Повторный запрос информации из того же статуса допустим
	resp, err = f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusInfoRequested,
		ActorID:   2,
		ActorRole: domain.RoleProvider,
		Payload:   Payload{Note: ptr.Ptr("А наброски есть?")},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInfoRequested, resp.Booking.Status)
}

func TestExecute_DeclineRequiresReason(t *testing.T) {
	f := newFixture(pendingBooking())

	_, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusDeclined,
		ActorID:   2,
		ActorRole: domain.RoleProvider,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusDeclined,
		ActorID:   2,
		ActorRole: domain.RoleProvider,
		Payload:   Payload{DeclineReason: ptr.Ptr("Не беру такие сюжеты")},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclined, resp.Booking.Status)
	expectNotification(t, f, notifier.TemplateBookingDeclined)
}

func TestExecute_ScheduleReservesSlot(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusApproved
	booking.DurationMinutes = ptr.Ptr(120)
	f := newFixture(booking)

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusAwaitingDeposit,
		ActorID:   9,
		ActorRole: domain.RoleRequester,
		Payload: Payload{
			BookID:    ptr.Ptr(int64(1)),
			Date:      &testDate,
			StartTime: ptr.Ptr(types.TimeString("10:00")),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingDeposit, resp.Booking.Status)

	// Интервал рассчитан из длительности, назначенной при одобрении
	require.NotNil(t, f.reserver.got)
	assert.Equal(t, types.TimeString("10:00"), f.reserver.got.StartTime)
	assert.Equal(t, types.TimeString("12:00"), f.reserver.got.EndTime)
	require.NotNil(t, f.reserver.got.BookingID)
	assert.Equal(t, int64(12), *f.reserver.got.BookingID)

	expectNotification(t, f, notifier.TemplateDepositRequested)

	// Созданный блок зеркалируется в календарь после коммита
	select {
	case event := <-f.mirror.pushed:
		assert.Equal(t, int64(301), event.BlockID)
		assert.Equal(t, booking.Description, event.Description)
	case <-time.After(time.Second):
		t.Fatal("reserved block was not mirrored")
	}
}

// Конфликт резервирования не продвигает статус и уходит наверх
// вместе с альтернативой
func TestExecute_ScheduleConflictKeepsStatus(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusApproved
	booking.DurationMinutes = ptr.Ptr(120)
	f := newFixture(booking)
	f.reserver.err = &reserve_slot.SlotTakenError{
		Alternative: &domain.Slot{StartTime: "14:00", EndTime: "16:00", DurationMinutes: 120},
	}

	_, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusAwaitingDeposit,
		ActorID:   9,
		ActorRole: domain.RoleRequester,
		Payload: Payload{
			BookID:    ptr.Ptr(int64(1)),
			Date:      &testDate,
			StartTime: ptr.Ptr(types.TimeString("10:00")),
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, reserve_slot.ErrSlotTaken)

	var taken *reserve_slot.SlotTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, types.TimeString("14:00"), taken.Alternative.StartTime)

	assert.Equal(t, domain.StatusApproved, f.bookings.booking.Status)
}

func TestExecute_ScheduleWithoutApprovedDuration(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusApproved
	f := newFixture(booking)

	_, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusAwaitingDeposit,
		ActorID:   9,
		ActorRole: domain.RoleRequester,
		Payload: Payload{
			BookID:    ptr.Ptr(int64(1)),
			Date:      &testDate,
			StartTime: ptr.Ptr(types.TimeString("10:00")),
		},
	})

	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestExecute_LedgerConfirmsDeposit(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusAwaitingDeposit
	f := newFixture(booking)
	paidAt := time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC)

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusConfirmed,
		ActorRole: domain.RoleLedger,
		Payload:   Payload{DepositPaidAt: &paidAt},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	require.NotNil(t, resp.Booking.DepositPaidAt)
	assert.True(t, resp.Booking.DepositPaidAt.Equal(paidAt))

	expectNotification(t, f, notifier.TemplateDepositPaid)
}

// Внутри объемлющей транзакции эффекты не исполняются сразу: они
// возвращаются вызывающему и уходят адресатам только после её коммита
func TestExecute_EffectsDeferredInsideTransaction(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusAwaitingDeposit
	f := newFixture(booking)
	uc := f.useCase()
	paidAt := time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC)

	ctx := txmanager.ContextWithTx(context.Background(), &sql.Tx{})
	resp, err := uc.Execute(ctx, &Request{
		BookingID: 12,
		Target:    domain.StatusConfirmed,
		ActorRole: domain.RoleLedger,
		Payload:   Payload{DepositPaidAt: &paidAt},
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Effects)

	select {
	case n := <-f.notifier.sent:
		t.Fatalf("notification %s was sent before the enclosing transaction committed", n.Template)
	case <-time.After(50 * time.Millisecond):
	}

	// После коммита вызывающий исполняет отложенные эффекты сам
	uc.FlushEffects(12, resp.Effects)
	expectNotification(t, f, notifier.TemplateDepositPaid)
}

func TestExecute_ReopenCompleted(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusCompleted
	f := newFixture(booking)

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusConfirmed,
		ActorID:   2,
		ActorRole: domain.RoleProvider,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
}

// Отмена освобождает блок расписания и claim flash-дизайна
func TestExecute_CancelReleasesResources(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	booking.FlashPieceID = ptr.Ptr(int64(3))
	booking.AppointmentDate = &testDate
	booking.StartTime = ptr.Ptr(types.TimeString("10:00"))
	booking.EndTime = ptr.Ptr(types.TimeString("12:00"))
	f := newFixture(booking)
	f.blocks.block = &domain.TimeBlock{ID: 301, BookingID: ptr.Ptr(int64(12))}

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusCancelled,
		ActorID:   9,
		ActorRole: domain.RoleRequester,
		Payload:   Payload{CancellationReason: ptr.Ptr("Передумал")},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	assert.True(t, f.blocks.deleted)
	assert.True(t, f.flash.released)

	select {
	case blockID := <-f.mirror.removed:
		assert.Equal(t, int64(301), blockID)
	case <-time.After(time.Second):
		t.Fatal("mirrored event was not removed")
	}

	select {
	case bookingID := <-f.notifier.cancelled:
		assert.Equal(t, int64(12), bookingID)
	case <-time.After(time.Second):
		t.Fatal("pending notifications were not cancelled")
	}
}

// Заявка без записи в расписании отменяется без освобождения блока
func TestExecute_CancelUnscheduledBooking(t *testing.T) {
	f := newFixture(pendingBooking())

	resp, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusCancelled,
		ActorID:   9,
		ActorRole: domain.RoleRequester,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	assert.False(t, f.blocks.deleted)
	assert.Zero(t, f.flash.releaseCalls)
}

// Claim, уже перешедший другой заявке, не трогается
func TestExecute_CancelStaleClaim(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusAwaitingDeposit
	booking.FlashPieceID = ptr.Ptr(int64(3))
	f := newFixture(booking)
	f.flash.heldByOther = true

	_, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusCancelled,
		ActorID:   9,
		ActorRole: domain.RoleRequester,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, f.flash.releaseCalls)
	assert.False(t, f.flash.released)
}

func TestExecute_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		target  domain.BookingStatus
		role    domain.Role
		wantErr error
	}{
		// Переход существует, но закреплён за другой ролью
		{name: "requester approves own booking", status: domain.StatusPending, target: domain.StatusApproved, role: domain.RoleRequester, wantErr: ErrAccessDenied},
		{name: "provider confirms deposit", status: domain.StatusAwaitingDeposit, target: domain.StatusConfirmed, role: domain.RoleProvider, wantErr: ErrAccessDenied},
		// Пары нет в таблице переходов ни для одной роли
		{name: "skip approval", status: domain.StatusPending, target: domain.StatusAwaitingDeposit, role: domain.RoleRequester, wantErr: ErrIllegalTransition},
		{name: "cancel cancelled", status: domain.StatusCancelled, target: domain.StatusCancelled, role: domain.RoleRequester, wantErr: ErrIllegalTransition},
		{name: "complete pending", status: domain.StatusPending, target: domain.StatusCompleted, role: domain.RoleProvider, wantErr: ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := pendingBooking()
			booking.Status = tt.status
			f := newFixture(booking)

			_, err := f.useCase().Execute(context.Background(), &Request{
				BookingID: 12,
				Target:    tt.target,
				ActorID:   9,
				ActorRole: tt.role,
			})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.status, f.bookings.booking.Status)
		})
	}
}

func TestExecute_RequesterCannotTouchForeignBooking(t *testing.T) {
	f := newFixture(pendingBooking())

	_, err := f.useCase().Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusCancelled,
		ActorID:   777,
		ActorRole: domain.RoleRequester,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, f.bookings.booking.Status)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(pendingBooking())
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), &Request{BookingID: 0, Target: domain.StatusApproved, ActorID: 2, ActorRole: domain.RoleProvider})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookingID: 12, Target: "unknown", ActorID: 2, ActorRole: domain.RoleProvider})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BookingID: 12, Target: domain.StatusApproved, ActorID: 2, ActorRole: "support"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Актор без ID допустим только для ledger
	_, err = uc.Execute(context.Background(), &Request{BookingID: 12, Target: domain.StatusApproved, ActorRole: domain.RoleProvider})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusApproved,
		ActorID:   2,
		ActorRole: domain.RoleProvider,
		Payload: Payload{
			DurationMinutes: ptr.Ptr(120),
			DepositAmount:   ptr.Ptr(500.0),
			TotalAmount:     ptr.Ptr(400.0),
		},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		BookingID: 12,
		Target:    domain.StatusCancelled,
		ActorID:   9,
		ActorRole: domain.RoleRequester,
		Payload:   Payload{CancellationReason: ptr.Ptr(strings.Repeat("а", domain.MaxCancellationReasonLength+1))},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
