package exception

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/pkg/psqlbuilder"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
)

// Repository репозиторий для работы с исключениями расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или заменяет исключение на дату
// На пару (book_id, exception_date) действует уникальный индекс -
// исключений на одну дату не бывает больше одного
func (r *Repository) Upsert(ctx context.Context, exc *domain.DayException) (*domain.DayException, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("day_exceptions").
		Columns("book_id", "exception_date", "closed", "open_time", "close_time").
		Values(exc.BookID, exc.Date, exc.Closed, exc.OpenTime, exc.CloseTime).
		Suffix(`ON CONFLICT (book_id, exception_date) DO UPDATE
			SET closed = EXCLUDED.closed,
			    open_time = EXCLUDED.open_time,
			    close_time = EXCLUDED.close_time
			RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&exc.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}
	exc.CreatedAt = createdAt.Time

	return exc, nil
}

// GetByBookAndDate получает исключение книги на конкретную дату
func (r *Repository) GetByBookAndDate(ctx context.Context, bookID int64, date time.Time) (*domain.DayException, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "book_id", "exception_date", "closed", "open_time", "close_time", "created_at",
	).
		From("day_exceptions").
		Where(squirrel.Eq{"book_id": bookID}).
		Where(squirrel.Eq{"exception_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookAndDate - build select query: %v", ErrBuildQuery, err)
	}

	var exc domain.DayException
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exc.ID,
		&exc.BookID,
		&exc.Date,
		&exc.Closed,
		&exc.OpenTime,
		&exc.CloseTime,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookAndDate - scan exception: %v", ErrScanRow, err)
	}
	exc.CreatedAt = createdAt.Time

	return &exc, nil
}

// GetByBookAndRange получает исключения книги за период дат
// Используется range-запросом доступности, чтобы не ходить в БД на каждый день
func (r *Repository) GetByBookAndRange(ctx context.Context, bookID int64, start, end time.Time) ([]*domain.DayException, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "book_id", "exception_date", "closed", "open_time", "close_time", "created_at",
	).
		From("day_exceptions").
		Where(squirrel.Eq{"book_id": bookID}).
		Where(squirrel.GtOrEq{"exception_date": start}).
		Where(squirrel.LtOrEq{"exception_date": end}).
		OrderBy("exception_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookAndRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]*domain.DayException, 0)
	for rows.Next() {
		var exc domain.DayException
		var createdAt sql.NullTime

		err := rows.Scan(
			&exc.ID,
			&exc.BookID,
			&exc.Date,
			&exc.Closed,
			&exc.OpenTime,
			&exc.CloseTime,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBookAndRange - scan row: %v", ErrScanRow, err)
		}
		exc.CreatedAt = createdAt.Time
		exceptions = append(exceptions, &exc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBookAndRange - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// DeleteByBookAndDate удаляет исключение книги на дату
func (r *Repository) DeleteByBookAndDate(ctx context.Context, bookID int64, date time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("day_exceptions").
		Where(squirrel.Eq{"book_id": bookID}).
		Where(squirrel.Eq{"exception_date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByBookAndDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByBookAndDate - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByBookAndDate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}
