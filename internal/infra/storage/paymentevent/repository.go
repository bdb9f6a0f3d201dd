package paymentevent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/pkg/psqlbuilder"
	"github.com/needleworks/INK-BookingService/pkg/txmanager"
)

// Код ошибки PostgreSQL unique_violation
const pqUniqueViolation = "23505"

// Repository ledger обработанных платежных событий
// event_id - первичный ключ: сама БД гарантирует, что одно событие
// не будет записано дважды даже при конкурентной доставке
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ledger
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Exists проверяет, было ли событие уже обработано
func (r *Repository) Exists(ctx context.Context, eventID string) (bool, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("processed_payment_events").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// Insert записывает событие в ledger
// Конкурентная вставка того же event_id упирается в первичный ключ
// и возвращается как ErrDuplicateEvent
func (r *Repository) Insert(ctx context.Context, event *domain.ProcessedPaymentEvent) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("processed_payment_events").
		Columns("event_id", "event_type", "event_created_at").
		Values(event.EventID, event.EventType, event.EventCreatedAt).
		Suffix("RETURNING processed_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&event.ProcessedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("%w: Insert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteOlderThan удаляет строки ledger старше cutoff
// Очистка best-effort: ошибка не влияет на обработку событий
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("processed_payment_events").
		Where(squirrel.Lt{"event_created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}
