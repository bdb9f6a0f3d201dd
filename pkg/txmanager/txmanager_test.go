package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "serialization failure code", err: &pq.Error{Code: "40001"}, want: true},
		{name: "deadlock code", err: &pq.Error{Code: "40P01"}, want: true},
		{name: "other pq code", err: &pq.Error{Code: "23505"}, want: false},
		{name: "wrapped pq error", err: fmt.Errorf("exec: %w", &pq.Error{Code: "40001"}), want: true},
		{name: "ErrSerialization itself", err: ErrSerialization, want: true},
		{name: "wrapped ErrSerialization", err: fmt.Errorf("%w: details", ErrSerialization), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSerializationFailure(tt.err))
		})
	}
}

func TestGetExecutor_Fallback(t *testing.T) {
	fallback := &sql.DB{}
	got := GetExecutor(context.Background(), fallback)
	assert.Same(t, fallback, got)
	assert.False(t, IsInTransaction(context.Background()))
}

func TestGetExecutor_FromContext(t *testing.T) {
	tx := &sql.Tx{}
	ctx := context.WithValue(context.Background(), ctxKey{}, tx)

	got := GetExecutor(ctx, &sql.DB{})
	assert.Same(t, tx, got)
	assert.True(t, IsInTransaction(ctx))
}

// Вложенный вызов DoSerializable внутри открытой транзакции выполняет
// fn напрямую, без новой транзакции. На этом держатся составные
// операции: переход статуса и резервирование слота в одной транзакции
func TestDoSerializable_NestedPassthrough(t *testing.T) {
	m := NewTransactionManager(nil) // db не понадобится
	ctx := context.WithValue(context.Background(), ctxKey{}, &sql.Tx{})

	called := false
	err := m.DoSerializable(ctx, func(innerCtx context.Context) error {
		called = true
		// Вложенный вызов видит ту же транзакцию
		assert.True(t, IsInTransaction(innerCtx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestDoSerializable_NestedPropagatesError(t *testing.T) {
	m := NewTransactionManager(nil)
	ctx := context.WithValue(context.Background(), ctxKey{}, &sql.Tx{})

	sentinel := errors.New("domain failure")
	err := m.DoSerializable(ctx, func(context.Context) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
}
