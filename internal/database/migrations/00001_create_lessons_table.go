package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateLessonsTable, downCreateLessonsTable)
}

func upCreateLessonsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE lessons (
	  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	  subject VARCHAR(255) NOT NULL,
	  location VARCHAR(255) NOT NULL,
	  price DECIMAL(10,2) NOT NULL DEFAULT 0,
	  spaces INT UNSIGNED NOT NULL DEFAULT 0,
	  image VARCHAR(1024) NOT NULL DEFAULT '',
	  CONSTRAINT chk_lessons_price CHECK (price >= 0),
	  FULLTEXT KEY ft_lessons_subject_location (subject, location)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateLessonsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS lessons;`)
	return err
}
