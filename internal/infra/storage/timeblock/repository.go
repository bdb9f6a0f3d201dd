package timeblock

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

// Repository репозиторий для работы с занятыми интервалами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория занятых интервалов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает занятый интервал
// Вызывается только внутри сериализуемой транзакции резервирования -
// вместе с проверкой пересечений это единственный способ гарантировать
// отсутствие двойного бронирования
func (r *Repository) Create(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_blocks").
		Columns("book_id", "block_date", "start_time", "end_time", "block_type", "booking_id").
		Values(block.BookID, block.Date, block.StartTime, block.EndTime, block.Type, block.BookingID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	block.CreatedAt = createdAt.Time

	return block, nil
}

// GetByBookAndDate получает все занятые интервалы книги на дату,
// отсортированные по времени начала
// Внутри транзакции добавляет FOR UPDATE - строки блокируются до конца
// транзакции резервирования
func (r *Repository) GetByBookAndDate(ctx context.Context, bookID int64, date time.Time) ([]*domain.TimeBlock, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "book_id", "block_date", "start_time", "end_time", "block_type", "booking_id", "created_at",
	).
		From("time_blocks").
		Where(squirrel.Eq{"book_id": bookID}).
		Where(squirrel.Eq{"block_date": date}).
		OrderBy("start_time ASC")

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBlocks(rows)
}

// GetOverlapping получает занятые интервалы книги на дату, пересекающиеся
// с интервалом [start, end)
// Пересечение полуоткрытое: existing.start < end AND existing.end > start,
// интервалы встык не конфликтуют
func (r *Repository) GetOverlapping(ctx context.Context, bookID int64, date time.Time, start, end types.TimeString) ([]*domain.TimeBlock, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "book_id", "block_date", "start_time", "end_time", "block_type", "booking_id", "created_at",
	).
		From("time_blocks").
		Where(squirrel.Eq{"book_id": bookID}).
		Where(squirrel.Eq{"block_date": date}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBlocks(rows)
}

// GetByBookingID получает блок записи, принадлежащий заявке
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.TimeBlock, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "book_id", "block_date", "start_time", "end_time", "block_type", "booking_id", "created_at",
	).
		From("time_blocks").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks, err := r.scanBlocks(rows)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, ErrBlockNotFound
	}
	return blocks[0], nil
}

// Delete удаляет занятый интервал по ID
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}

// DeleteByBookingID освобождает блок записи заявки (при отмене)
// Отсутствие блока не является ошибкой - заявка могла ещё не дойти
// до резервирования
func (r *Repository) DeleteByBookingID(ctx context.Context, bookingID int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_blocks").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByBookingID - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByBookingID - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// scanBlocks сканирует результаты запроса в слайс занятых интервалов
func (r *Repository) scanBlocks(rows *sql.Rows) ([]*domain.TimeBlock, error) {
	blocks := make([]*domain.TimeBlock, 0)

	for rows.Next() {
		var block domain.TimeBlock
		var createdAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.BookID,
			&block.Date,
			&block.StartTime,
			&block.EndTime,
			&block.Type,
			&block.BookingID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBlocks - scan row: %v", ErrScanRow, err)
		}
		block.CreatedAt = createdAt.Time
		blocks = append(blocks, &block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBlocks - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}
