package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateOrdersTables, downCreateOrdersTables)
}

// order_lines.lesson_id deliberately has no foreign key: orders reference
// lessons weakly.
func upCreateOrdersTables(ctx context.Context, tx *sql.Tx) error {
	orders := `
	CREATE TABLE orders (
	  id CHAR(36) NOT NULL PRIMARY KEY,
	  name VARCHAR(100) NOT NULL,
	  phone VARCHAR(32) NOT NULL,
	  created_at DATETIME(3) NOT NULL,
	  KEY idx_orders_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`
	if _, err := tx.ExecContext(ctx, orders); err != nil {
		return err
	}

	lines := `
	CREATE TABLE order_lines (
	  order_id CHAR(36) NOT NULL,
	  position INT UNSIGNED NOT NULL,
	  lesson_id BIGINT UNSIGNED NOT NULL,
	  seats INT UNSIGNED NOT NULL DEFAULT 1,
	  PRIMARY KEY (order_id, position),
	  CONSTRAINT fk_order_lines_order FOREIGN KEY (order_id) REFERENCES orders (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`
	_, err := tx.ExecContext(ctx, lines)
	return err
}

func downCreateOrdersTables(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS order_lines;`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS orders;`)
	return err
}
