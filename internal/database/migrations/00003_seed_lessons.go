package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/iliyamo/lesson-booking/internal/model"
)

func init() {
	goose.AddMigrationContext(upSeedLessons, downSeedLessons)
}

func upSeedLessons(ctx context.Context, tx *sql.Tx) error {
	const q = `INSERT INTO lessons (id, subject, location, price, spaces, image) VALUES (?, ?, ?, ?, ?, ?)`
	for _, l := range model.SeedLessons() {
		if _, err := tx.ExecContext(ctx, q, l.ID, l.Subject, l.Location, l.Price.String(), l.Spaces, l.Image); err != nil {
			return err
		}
	}
	return nil
}

func downSeedLessons(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE id BETWEEN 1 AND 10;`)
	return err
}
