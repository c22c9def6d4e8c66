package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/lesson-booking/internal/model"
)

const lessonColumns = `id, subject, location, price, spaces, image`

// LessonRepo provides catalog reads and the administrative seat override
// over the lessons table.
type LessonRepo struct {
	db  *sqlx.DB
	log logrus.FieldLogger
}

// NewLessonRepo returns a LessonRepo bound to the given database.
func NewLessonRepo(db *sqlx.DB, log logrus.FieldLogger) *LessonRepo {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LessonRepo{db: db, log: log.WithField("repo", "lessons")}
}

// ListAll returns every lesson ordered by the requested column. Unknown
// sort fields fall back to id; callers validate user input beforehand.
// Ties are always broken by id so paging clients see a stable order.
func (r *LessonRepo) ListAll(ctx context.Context, sort model.LessonSort) ([]model.Lesson, error) {
	col, ok := model.LessonSortFields[sort.Field]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}
	q := `SELECT ` + lessonColumns + ` FROM lessons ORDER BY ` + col + ` ` + dir
	if col != "id" {
		q += `, id ASC`
	}

	out := []model.Lesson{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}
	return out, nil
}

// GetByID returns the lesson with the given id or ErrLessonNotFound.
func (r *LessonRepo) GetByID(ctx context.Context, id uint64) (*model.Lesson, error) {
	var l model.Lesson
	err := r.db.GetContext(ctx, &l, `SELECT `+lessonColumns+` FROM lessons WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting lesson %d: %w", id, err)
	}
	return &l, nil
}

// UpdateSpaces overwrites the seat count of a lesson. MySQL reports zero
// affected rows when the value is unchanged, so existence is decided by
// reading the row back.
func (r *LessonRepo) UpdateSpaces(ctx context.Context, id uint64, spaces int) (*model.Lesson, error) {
	if _, err := r.db.ExecContext(ctx, `UPDATE lessons SET spaces = ? WHERE id = ?`, spaces, id); err != nil {
		return nil, fmt.Errorf("updating lesson %d spaces: %w", id, err)
	}
	return r.GetByID(ctx, id)
}
