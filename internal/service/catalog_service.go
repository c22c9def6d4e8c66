package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iliyamo/lesson-booking/internal/logging"
	"github.com/iliyamo/lesson-booking/internal/model"
	"github.com/iliyamo/lesson-booking/internal/repository"
	"github.com/iliyamo/lesson-booking/internal/service/ports"
)

// CatalogService answers catalog reads and applies the administrative
// seat override.
type CatalogService struct {
	lessons ports.LessonStore
	options
}

// NewCatalogService builds a CatalogService over the given lesson store.
func NewCatalogService(lessons ports.LessonStore, opts ...Option) *CatalogService {
	if lessons == nil {
		panic("nil lesson store passed to NewCatalogService")
	}
	return &CatalogService{lessons: lessons, options: buildOptions(opts)}
}

// ListLessons returns the full catalog. sortBy must be empty or one of the
// lesson fields; order is "asc" (default) or "desc".
func (s *CatalogService) ListLessons(ctx context.Context, sortBy, order string) ([]model.Lesson, error) {
	ls, err := parseSort(sortBy, order)
	if err != nil {
		return nil, err
	}
	out, err := s.lessons.ListAll(ctx, ls)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func parseSort(sortBy, order string) (model.LessonSort, error) {
	var ls model.LessonSort
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	if sortBy != "" {
		if _, ok := model.LessonSortFields[sortBy]; !ok {
			return ls, invalid("unknown sort field %q", sortBy)
		}
		ls.Field = sortBy
	}
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
	case "desc":
		ls.Desc = true
	default:
		return ls, invalid("unknown sort order %q", order)
	}
	return ls, nil
}

// SearchLessons matches subject and location case-insensitively and, for
// numeric queries, price or spaces exactly. A blank query lists everything.
func (s *CatalogService) SearchLessons(ctx context.Context, query string) ([]model.Lesson, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.ListLessons(ctx, "", "")
	}
	out, err := s.lessons.Search(ctx, q)
	if err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

// GetLesson returns a single lesson by id.
func (s *CatalogService) GetLesson(ctx context.Context, id uint64) (*model.Lesson, error) {
	if id == 0 {
		return nil, invalid("lesson id is required")
	}
	l, err := s.lessons.GetByID(ctx, id)
	if errors.Is(err, repository.ErrLessonNotFound) {
		return nil, fmt.Errorf("lesson %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return l, nil
}

// maxSpaces is the largest seat count the lessons table can hold.
const maxSpaces int64 = math.MaxUint32

// UpdateLessonSpaces overwrites a lesson's seat count. It bypasses the
// order decrement guard and is meant for administrative corrections.
func (s *CatalogService) UpdateLessonSpaces(ctx context.Context, id uint64, spaces int) (*model.Lesson, error) {
	if id == 0 {
		return nil, invalid("lesson id is required")
	}
	if spaces < 0 {
		return nil, invalid("spaces must not be negative")
	}
	if int64(spaces) > maxSpaces {
		return nil, invalid("spaces must not exceed %d", maxSpaces)
	}
	l, err := s.lessons.UpdateSpaces(ctx, id, spaces)
	if errors.Is(err, repository.ErrLessonNotFound) {
		return nil, fmt.Errorf("lesson %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, unavailable(err)
	}
	log := logging.FromContext(ctx, s.log).WithField("lesson_id", id)
	if s.cache != nil {
		if err := s.cache.InvalidateCatalog(context.WithoutCancel(ctx)); err != nil {
			log.WithError(err).Warn("catalog cache invalidation failed")
		}
	}
	log.WithField("spaces", spaces).Info("lesson spaces updated")
	return l, nil
}
