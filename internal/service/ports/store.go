// Package ports declares the capabilities the services need from storage,
// messaging and caching. Concrete implementations live in repository,
// repository/memory, queue and middleware.
package ports

import (
	"context"

	"github.com/iliyamo/lesson-booking/internal/model"
)

// LessonStore reads and administratively updates the lesson catalog.
type LessonStore interface {
	ListAll(ctx context.Context, sort model.LessonSort) ([]model.Lesson, error)
	// Search matches subject and location case-insensitively and, when
	// the query is numeric, price or spaces exactly.
	Search(ctx context.Context, query string) ([]model.Lesson, error)
	GetByID(ctx context.Context, id uint64) (*model.Lesson, error)
	// UpdateSpaces overwrites the seat count without the decrement guard.
	UpdateSpaces(ctx context.Context, id uint64, spaces int) (*model.Lesson, error)
}

// OrderTx is the unit of work used while placing an order.
type OrderTx interface {
	// DecrementSpace takes one seat from the lesson iff it has at least
	// one left. It reports false when the guard did not match, including
	// when the lesson does not exist.
	DecrementSpace(ctx context.Context, lessonID uint64) (bool, error)
	InsertOrder(ctx context.Context, order *model.Order) error
}

// OrderStore runs fn in a single transaction. The transaction commits when
// fn returns nil and rolls back every effect otherwise; fn's error is
// returned unchanged.
type OrderStore interface {
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error
}

// EventPublisher announces committed orders to downstream consumers.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order model.Order) error
}

// CacheInvalidator drops cached catalog responses after seat counts change.
type CacheInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}
