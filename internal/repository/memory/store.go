// Package memory is an in-process lesson catalog and order log. It honours
// the same transactional contract as the MySQL repositories and backs
// STORE_DRIVER=memory as well as the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/lesson-booking/internal/model"
	"github.com/iliyamo/lesson-booking/internal/repository"
	"github.com/iliyamo/lesson-booking/internal/service/ports"
)

// Store keeps lessons and orders in memory. A transaction holds the write
// lock for its whole duration; readers never observe a half-applied order.
type Store struct {
	mu      sync.RWMutex
	lessons map[uint64]*model.Lesson
	orders  []model.Order
}

// New returns a Store holding a copy of the given lessons.
func New(lessons []model.Lesson) *Store {
	s := &Store{lessons: make(map[uint64]*model.Lesson, len(lessons))}
	for _, l := range lessons {
		l := l
		s.lessons[l.ID] = &l
	}
	return s
}

func (s *Store) ListAll(_ context.Context, ls model.LessonSort) ([]model.Lesson, error) {
	s.mu.RLock()
	out := s.snapshot()
	s.mu.RUnlock()

	less := lessonLess(ls.Field)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ls.Desc {
			a, b = b, a
		}
		if c := less(a, b); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// lessonLess returns a three-way comparison for the named sort field.
func lessonLess(field string) func(a, b model.Lesson) int {
	switch field {
	case "subject":
		return func(a, b model.Lesson) int { return strings.Compare(a.Subject, b.Subject) }
	case "location":
		return func(a, b model.Lesson) int { return strings.Compare(a.Location, b.Location) }
	case "price":
		return func(a, b model.Lesson) int { return a.Price.Cmp(b.Price) }
	case "spaces":
		return func(a, b model.Lesson) int { return a.Spaces - b.Spaces }
	default:
		return func(a, b model.Lesson) int {
			switch {
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			}
			return 0
		}
	}
}

// Search scans every lesson: case-insensitive substring on subject and
// location, plus exact price/spaces equality for numeric queries.
func (s *Store) Search(_ context.Context, query string) ([]model.Lesson, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	price, numErr := decimal.NewFromString(q)

	s.mu.RLock()
	all := s.snapshot()
	s.mu.RUnlock()

	out := make([]model.Lesson, 0, len(all))
	for _, l := range all {
		switch {
		case strings.Contains(strings.ToLower(l.Subject), q),
			strings.Contains(strings.ToLower(l.Location), q):
		case numErr == nil && l.Price.Equal(price):
		case numErr == nil && price.IsInteger() && int64(l.Spaces) == price.IntPart():
		default:
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Store) GetByID(_ context.Context, id uint64) (*model.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lessons[id]
	if !ok {
		return nil, repository.ErrLessonNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *Store) UpdateSpaces(_ context.Context, id uint64, spaces int) (*model.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lessons[id]
	if !ok {
		return nil, repository.ErrLessonNotFound
	}
	l.Spaces = spaces
	cp := *l
	return &cp, nil
}

// WithinTx runs fn under the write lock. Seat decrements are recorded in
// an undo log and reverted when fn fails; orders become visible only after
// fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{s: s}
	if err := fn(tx); err != nil {
		for _, id := range tx.decremented {
			s.lessons[id].Spaces++
		}
		return err
	}
	s.orders = append(s.orders, tx.pending...)
	return nil
}

// Orders returns a copy of the order log in insertion order.
func (s *Store) Orders() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// snapshot copies all lessons ordered by id. Callers hold at least the read lock.
func (s *Store) snapshot() []model.Lesson {
	out := make([]model.Lesson, 0, len(s.lessons))
	for _, l := range s.lessons {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memTx struct {
	s           *Store
	decremented []uint64
	pending     []model.Order
}

func (t *memTx) DecrementSpace(_ context.Context, lessonID uint64) (bool, error) {
	l, ok := t.s.lessons[lessonID]
	if !ok || l.Spaces <= 0 {
		return false, nil
	}
	l.Spaces--
	t.decremented = append(t.decremented, lessonID)
	return true, nil
}

func (t *memTx) InsertOrder(_ context.Context, o *model.Order) error {
	cp := *o
	cp.Lessons = append([]model.CartLine(nil), o.Lessons...)
	t.pending = append(t.pending, cp)
	return nil
}
