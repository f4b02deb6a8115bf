package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderNumberSequence hands out monotonically increasing order numbers.
// Uniqueness is the only hard guarantee; gaps from aborted creations are
// acceptable.
type OrderNumberSequence interface {
	Next(ctx context.Context) (int64, error)
}

type postgresSequence struct {
	pool *pgxpool.Pool
}

// NewPostgresSequence draws numbers from the purchase_order_seq sequence.
func NewPostgresSequence(pool *pgxpool.Pool) OrderNumberSequence {
	return &postgresSequence{pool: pool}
}

func (s *postgresSequence) Next(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT nextval('purchase_order_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to advance order number sequence: %w", err)
	}
	return n, nil
}

type memorySequence struct {
	counter atomic.Int64
}

// NewMemorySequence is an in-process counter for tests and demo mode.
func NewMemorySequence() OrderNumberSequence {
	return &memorySequence{}
}

func (s *memorySequence) Next(ctx context.Context) (int64, error) {
	return s.counter.Add(1), nil
}
