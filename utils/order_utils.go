package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
)

// RowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, so order
// numbers can be generated inside or outside a transaction.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// GenerateOrderNumber produces the next order number in the form
// ORD-YYYY-NNNN, continuing the sequence from the highest number
// already stored for the current year.
func GenerateOrderNumber(ctx context.Context, q RowQuerier) (string, error) {
	return nextOrderNumber(ctx, q, time.Now().Year())
}

func nextOrderNumber(ctx context.Context, q RowQuerier, year int) (string, error) {
	prefix := fmt.Sprintf("ORD-%d-", year)

	var last string
	err := q.QueryRow(ctx,
		`SELECT order_number FROM purchases WHERE order_number LIKE $1 ORDER BY order_number DESC LIMIT 1`,
		prefix+"%").Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return prefix + "0001", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query last order number: %w", err)
	}

	var seq int
	if _, err := fmt.Sscanf(last, prefix+"%d", &seq); err != nil {
		// A malformed stored number restarts the sequence.
		return prefix + "0001", nil
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}
