package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/pkg/psqlbuilder"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// bookingColumns полный набор колонок заявки в порядке сканирования
var bookingColumns = []string{
	"id",
	"requester_id",
	"type",
	"status",
	"description",
	"placement",
	"size",
	"preferred_dates",
	"medical_notes",
	"book_id",
	"flash_piece_id",
	"flash_size_id",
	"appointment_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"deposit_amount",
	"total_amount",
	"deposit_paid_at",
	"final_payment_at",
	"decline_reason",
	"cancellation_reason",
	"cancelled_at",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заявками на бронирование
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую заявку
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"requester_id",
			"type",
			"status",
			"description",
			"placement",
			"size",
			"preferred_dates",
			"medical_notes",
			"book_id",
			"flash_piece_id",
			"flash_size_id",
			"appointment_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"deposit_amount",
			"total_amount",
			"notes",
		).
		Values(
			b.RequesterID,
			b.Type,
			b.Status,
			b.Description,
			b.Placement,
			b.Size,
			b.PreferredDates,
			b.MedicalNotes,
			b.BookID,
			b.FlashPieceID,
			b.FlashSizeID,
			b.AppointmentDate,
			b.StartTime,
			b.EndTime,
			b.DurationMinutes,
			b.DepositAmount,
			b.TotalAmount,
			b.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает заявку по ID
// Внутри транзакции строка блокируется (FOR UPDATE) - переходы статуса
// одной заявки выполняются последовательно
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	b, err := r.scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// GetWithFilter получает заявки с гибкой фильтрацией
// По умолчанию терминальные (completed/declined/cancelled) исключаются
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.RequesterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requester_id": *filter.RequesterID})
	}
	if filter.BookID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"book_id": *filter.BookID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeTerminal {
		terminal := make([]string, len(domain.TerminalStatuses))
		for i, s := range domain.TerminalStatuses {
			terminal[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": terminal})
	}

	selectBuilder = selectBuilder.OrderBy("created_at DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus обновляет статус заявки
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "UpdateStatus")
}

// UpdateApproval фиксирует условия работы при одобрении заявки
func (r *Repository) UpdateApproval(ctx context.Context, id int64, durationMinutes int, depositAmount, totalAmount float64) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("status", domain.StatusApproved).
		Set("duration_minutes", durationMinutes).
		Set("deposit_amount", depositAmount).
		Set("total_amount", totalAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "UpdateApproval")
}

// UpdateSchedule записывает данные записи после успешного резервирования слота
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, bookID int64, date time.Time, start, end types.TimeString) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("status", domain.StatusAwaitingDeposit).
		Set("book_id", bookID).
		Set("appointment_date", date).
		Set("start_time", start).
		Set("end_time", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "UpdateSchedule")
}

// UpdateContent обновляет редактируемые клиентом поля заявки
func (r *Repository) UpdateContent(ctx context.Context, b *domain.Booking) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("description", b.Description).
		Set("placement", b.Placement).
		Set("size", b.Size).
		Set("preferred_dates", b.PreferredDates).
		Set("medical_notes", b.MedicalNotes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID}), "UpdateContent")
}

// UpdateNotes заменяет служебные заметки по заявке
func (r *Repository) UpdateNotes(ctx context.Context, id int64, notes string) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("notes", notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "UpdateNotes")
}

// SetDepositPaid переводит заявку в confirmed и фиксирует время оплаты депозита
func (r *Repository) SetDepositPaid(ctx context.Context, id int64, paidAt time.Time) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("deposit_paid_at", paidAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "SetDepositPaid")
}

// SetFinalPaymentPaid фиксирует оплату выставленного мастером счета
// Статус заявки при этом не меняется
func (r *Repository) SetFinalPaymentPaid(ctx context.Context, id int64, paidAt time.Time) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("final_payment_at", paidAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "SetFinalPaymentPaid")
}

// Decline отклоняет заявку с причиной
func (r *Repository) Decline(ctx context.Context, id int64, reason string) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("status", domain.StatusDeclined).
		Set("decline_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "Decline")
}

// Cancel отменяет заявку с причиной
// Освобождение блока расписания и flash-claim выполняется usecase'ом
// в той же транзакции
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	return r.exec(ctx, psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "Cancel")
}

// exec выполняет UPDATE и проверяет, что строка была затронута
func (r *Repository) exec(ctx context.Context, builder squirrel.UpdateBuilder, op string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну заявку
func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.RequesterID,
		&b.Type,
		&b.Status,
		&b.Description,
		&b.Placement,
		&b.Size,
		&b.PreferredDates,
		&b.MedicalNotes,
		&b.BookID,
		&b.FlashPieceID,
		&b.FlashSizeID,
		&b.AppointmentDate,
		&b.StartTime,
		&b.EndTime,
		&b.DurationMinutes,
		&b.DepositAmount,
		&b.TotalAmount,
		&b.DepositPaidAt,
		&b.FinalPaymentAt,
		&b.DeclineReason,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс заявок
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
