package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/lesson-booking/internal/model"
	"github.com/iliyamo/lesson-booking/internal/service/ports"
)

// OrderRepo appends orders and reserves seats for them. Every order is
// written inside one transaction together with the seat decrements it
// depends on, so an order row never exists without its seats and no seat
// is taken without an order.
type OrderRepo struct {
	db *sqlx.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// WithinTx begins a transaction, hands it to fn and commits only when fn
// succeeds. Any error from fn or from the commit leaves the database as it
// was before the call.
func (r *OrderRepo) WithinTx(ctx context.Context, fn func(tx ports.OrderTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&orderTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order transaction: %w", err)
	}
	committed = true
	return nil
}

type orderTx struct {
	tx *sqlx.Tx
}

// DecrementSpace is a single compare-and-decrement statement. The row lock
// it takes is held until the surrounding transaction ends, so concurrent
// buyers of the last seat serialise on it and only one sees a match.
func (t *orderTx) DecrementSpace(ctx context.Context, lessonID uint64) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `UPDATE lessons SET spaces = spaces - 1 WHERE id = ? AND spaces > 0`, lessonID)
	if err != nil {
		return false, fmt.Errorf("decrementing lesson %d: %w", lessonID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decrementing lesson %d: %w", lessonID, err)
	}
	return n == 1, nil
}

// InsertOrder writes the order header and all of its lines. Lines keep the
// cart position so the order reads back in submission order.
func (t *orderTx) InsertOrder(ctx context.Context, o *model.Order) error {
	const q = `INSERT INTO orders (id, name, phone, created_at) VALUES (?, ?, ?, ?)`
	if _, err := t.tx.ExecContext(ctx, q, o.ID, o.Name, o.Phone, o.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	if len(o.Lessons) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO order_lines (order_id, position, lesson_id, seats) VALUES `)
	args := make([]any, 0, len(o.Lessons)*4)
	for i, l := range o.Lessons {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, o.ID, i, l.LessonID, l.Seats)
	}
	if _, err := t.tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("inserting order lines: %w", err)
	}
	return nil
}
