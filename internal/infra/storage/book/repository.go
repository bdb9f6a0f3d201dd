package book

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

// Repository репозиторий для работы с книгами записи
// Недельное расписание хранится в отдельной таблице book_hours
// (одна строка на сконфигурированный день недели)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория книг записи
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает книгу записи вместе с недельным расписанием
func (r *Repository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("books").
		Columns("name", "type", "active", "opens_on", "closes_on", "deposit_amount").
		Values(book.Name, book.Type, book.Active, book.OpensOn, book.ClosesOn, book.DepositAmount).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&book.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	book.CreatedAt = createdAt.Time
	book.UpdatedAt = updatedAt.Time

	if err := r.replaceHours(ctx, executor, book.ID, book.Hours); err != nil {
		return nil, err
	}

	return book, nil
}

// GetByID получает книгу записи вместе с недельным расписанием
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "type", "active", "opens_on", "closes_on", "deposit_amount",
		"created_at", "updated_at",
	).
		From("books").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var book domain.Book
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&book.ID,
		&book.Name,
		&book.Type,
		&book.Active,
		&book.OpensOn,
		&book.ClosesOn,
		&book.DepositAmount,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan book: %v", ErrScanRow, err)
	}
	book.CreatedAt = createdAt.Time
	book.UpdatedAt = updatedAt.Time

	hours, err := r.loadHours(ctx, executor, book.ID)
	if err != nil {
		return nil, err
	}
	book.Hours = hours

	return &book, nil
}

// List получает все книги записи
// activeOnly = true - только активные
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]*domain.Book, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "name", "type", "active", "opens_on", "closes_on", "deposit_amount",
		"created_at", "updated_at",
	).
		From("books").
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		var book domain.Book
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&book.ID,
			&book.Name,
			&book.Type,
			&book.Active,
			&book.OpensOn,
			&book.ClosesOn,
			&book.DepositAmount,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		book.CreatedAt = createdAt.Time
		book.UpdatedAt = updatedAt.Time
		books = append(books, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	for _, b := range books {
		hours, err := r.loadHours(ctx, executor, b.ID)
		if err != nil {
			return nil, err
		}
		b.Hours = hours
	}

	return books, nil
}

// Update обновляет книгу записи и полностью заменяет недельное расписание
func (r *Repository) Update(ctx context.Context, book *domain.Book) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("books").
		Set("name", book.Name).
		Set("active", book.Active).
		Set("opens_on", book.OpensOn).
		Set("closes_on", book.ClosesOn).
		Set("deposit_amount", book.DepositAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookNotFound
	}

	return r.replaceHours(ctx, executor, book.ID, book.Hours)
}

// loadHours загружает недельное расписание книги
func (r *Repository) loadHours(ctx context.Context, executor DBExecutor, bookID int64) (map[time.Weekday]domain.DayHours, error) {
	query, args, err := psqlbuilder.Select("weekday", "open_time", "close_time").
		From("book_hours").
		Where(squirrel.Eq{"book_id": bookID}).
		OrderBy("weekday ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make(map[time.Weekday]domain.DayHours)
	for rows.Next() {
		var weekday int
		var open, close types.TimeString

		if err := rows.Scan(&weekday, &open, &close); err != nil {
			return nil, fmt.Errorf("%w: loadHours - scan row: %v", ErrScanRow, err)
		}
		hours[time.Weekday(weekday)] = domain.DayHours{Open: open, Close: close}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// replaceHours полностью заменяет недельное расписание книги
func (r *Repository) replaceHours(ctx context.Context, executor DBExecutor, bookID int64, hours map[time.Weekday]domain.DayHours) error {
	deleteQuery, deleteArgs, err := psqlbuilder.Delete("book_hours").
		Where(squirrel.Eq{"book_id": bookID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceHours - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: replaceHours - execute delete: %v", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("book_hours").
		Columns("book_id", "weekday", "open_time", "close_time")

	for weekday, dayHours := range hours {
		insertBuilder = insertBuilder.Values(bookID, int(weekday), dayHours.Open, dayHours.Close)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceHours - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: replaceHours - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
