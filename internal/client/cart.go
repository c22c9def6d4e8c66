package client

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/iliyamo/lesson-booking/internal/model"
)

var (
	ErrNoSpaces      = errors.New("no spaces left for this lesson")
	ErrUnknownLesson = errors.New("lesson is not in the catalog")
	ErrBadIndex      = errors.New("no cart item at that position")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidName   = errors.New("name may contain letters and spaces only")
	ErrInvalidPhone  = errors.New("phone may contain digits only")

	namePattern  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]+$`)
)

// Cart mirrors the catalog and holds lesson references chosen by the
// user. Seat counts shown by Lessons are optimistic: adding a lesson
// lowers them locally, the server decides at Submit. Cart is not safe for
// concurrent use.
type Cart struct {
	api     *Client
	sortBy  string
	order   string
	lessons []model.Lesson
	items   []uint64
}

// NewCart returns an empty cart. Call Refresh to load the catalog.
func NewCart(api *Client) *Cart {
	return &Cart{api: api}
}

// SetSort changes how Refresh orders the catalog.
func (c *Cart) SetSort(sortBy, order string) {
	c.sortBy, c.order = sortBy, order
}

// Refresh reloads the catalog. Items already in the cart keep their
// optimistic decrement on the fresh counts.
func (c *Cart) Refresh(ctx context.Context) error {
	lessons, err := c.api.ListLessons(ctx, c.sortBy, c.order)
	if err != nil {
		return err
	}
	c.lessons = lessons
	for _, id := range c.items {
		if l := c.find(id); l != nil {
			l.Spaces--
		}
	}
	return nil
}

// Lessons returns the catalog with displayed seat counts.
func (c *Cart) Lessons() []model.Lesson {
	return append([]model.Lesson(nil), c.lessons...)
}

// Items returns the lesson ids in the cart in insertion order.
func (c *Cart) Items() []uint64 {
	return append([]uint64(nil), c.items...)
}

func (c *Cart) find(id uint64) *model.Lesson {
	for i := range c.lessons {
		if c.lessons[i].ID == id {
			return &c.lessons[i]
		}
	}
	return nil
}

// Add puts a lesson in the cart and lowers its displayed seats.
func (c *Cart) Add(lessonID uint64) error {
	l := c.find(lessonID)
	if l == nil {
		return ErrUnknownLesson
	}
	if l.Spaces <= 0 {
		return ErrNoSpaces
	}
	l.Spaces--
	c.items = append(c.items, lessonID)
	return nil
}

// Remove drops the item at index and gives its seat back.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.items) {
		return ErrBadIndex
	}
	id := c.items[index]
	c.items = append(c.items[:index], c.items[index+1:]...)
	if l := c.find(id); l != nil {
		l.Spaces++
	}
	return nil
}

// ValidateContact applies the form checks the front end uses. The server
// does its own validation; these only catch typos early.
func ValidateContact(name, phone string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// Submit places the cart as one order. On success the cart is emptied and
// the catalog refetched; on any failure the cart is left as it was.
func (c *Cart) Submit(ctx context.Context, name, phone string) (*model.Order, error) {
	if len(c.items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := ValidateContact(name, phone); err != nil {
		return nil, err
	}

	lines := make([]model.CartLine, len(c.items))
	for i, id := range c.items {
		lines[i] = model.CartLine{LessonID: id, Seats: 1}
	}
	order, err := c.api.PlaceOrder(ctx, name, phone, lines)
	if err != nil {
		return nil, err
	}

	c.items = nil
	if err := c.Refresh(ctx); err != nil {
		return order, fmt.Errorf("order %s placed, reloading catalog: %w", order.ID, err)
	}
	return order, nil
}
