package flash

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/pkg/psqlbuilder"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
)

// Repository репозиторий для работы с каталогом flash-дизайнов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает flash-дизайн вместе с вариантами размеров
// Внутри транзакции строка дизайна блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.FlashPiece, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "title", "description", "repeatable", "claimed", "claimed_by_booking_id", "active",
		"created_at", "updated_at",
	).
		From("flash_pieces").
		Where(squirrel.Eq{"id": id})

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var piece domain.FlashPiece
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&piece.ID,
		&piece.Title,
		&piece.Description,
		&piece.Repeatable,
		&piece.Claimed,
		&piece.ClaimedBy,
		&piece.Active,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPieceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan piece: %v", ErrScanRow, err)
	}
	piece.CreatedAt = createdAt.Time
	piece.UpdatedAt = updatedAt.Time

	sizes, err := r.loadSizes(ctx, executor, piece.ID)
	if err != nil {
		return nil, err
	}
	piece.Sizes = sizes

	return &piece, nil
}

// List получает flash-дизайны каталога
// availableOnly = true - только активные и незабронированные
func (r *Repository) List(ctx context.Context, availableOnly bool) ([]*domain.FlashPiece, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "title", "description", "repeatable", "claimed", "claimed_by_booking_id", "active",
		"created_at", "updated_at",
	).
		From("flash_pieces").
		OrderBy("id ASC")

	if availableOnly {
		selectBuilder = selectBuilder.
			Where(squirrel.Eq{"active": true}).
			Where(squirrel.Or{
				squirrel.Eq{"repeatable": true},
				squirrel.Eq{"claimed": false},
			})
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

	pieces := make([]*domain.FlashPiece, 0)
	for rows.Next() {
		var piece domain.FlashPiece
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&piece.ID,
			&piece.Title,
			&piece.Description,
			&piece.Repeatable,
			&piece.Claimed,
			&piece.ClaimedBy,
			&piece.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		piece.CreatedAt = createdAt.Time
		piece.UpdatedAt = updatedAt.Time
		pieces = append(pieces, &piece)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	for _, p := range pieces {
		sizes, err := r.loadSizes(ctx, executor, p.ID)
		if err != nil {
			return nil, err
		}
		p.Sizes = sizes
	}

	return pieces, nil
}

// Claim ставит claim неповторяемого дизайна в пользу заявки
// Условный UPDATE: строка меняется только если дизайн активен, неповторяемый
// и ещё не забронирован. Ноль затронутых строк - claim уже занят (проверка
// и установка атомарны на уровне одного statement)
func (r *Repository) Claim(ctx context.Context, pieceID, bookingID int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("flash_pieces").
		Set("claimed", true).
		Set("claimed_by_booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": pieceID}).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Eq{"repeatable": false}).
		Where(squirrel.Eq{"claimed": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Claim - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Claim - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Claim - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyClaimed
	}

	return nil
}

// Release снимает claim, но только если он принадлежит указанной заявке
// Защита от гонки: устаревший release отменяемой заявки не должен снять
// claim, успевший перейти к новой заявке
// Возвращает true, если claim был снят
func (r *Repository) Release(ctx context.Context, pieceID, bookingID int64) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("flash_pieces").
		Set("claimed", false).
		Set("claimed_by_booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": pieceID}).
		Where(squirrel.Eq{"claimed_by_booking_id": bookingID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// loadSizes загружает варианты размеров дизайна
func (r *Repository) loadSizes(ctx context.Context, executor DBExecutor, pieceID int64) ([]domain.FlashSize, error) {
	query, args, err := psqlbuilder.Select("id", "piece_id", "label", "duration_minutes", "price").
		From("flash_sizes").
		Where(squirrel.Eq{"piece_id": pieceID}).
		OrderBy("duration_minutes ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadSizes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadSizes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sizes := make([]domain.FlashSize, 0)
	for rows.Next() {
		var size domain.FlashSize
		if err := rows.Scan(&size.ID, &size.PieceID, &size.Label, &size.DurationMinutes, &size.Price); err != nil {
			return nil, fmt.Errorf("%w: loadSizes - scan row: %v", ErrScanRow, err)
		}
		sizes = append(sizes, size)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadSizes - rows error: %v", ErrScanRow, err)
	}

	return sizes, nil
}
