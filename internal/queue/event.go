// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair for them.
package queue

import (
    "time"

    "github.com/iliyamo/lesson-booking/internal/model"
)

// OrderPlacedQueue is the durable queue carrying OrderPlacedEvent.
const OrderPlacedQueue = "order.placed"

// OrderPlacedEvent is published after an order commits. It carries enough
// for downstream consumers to log or notify without querying the store.
type OrderPlacedEvent struct {
    OrderID   string           `json:"order_id"`
    Name      string           `json:"name"`
    Phone     string           `json:"phone"`
    Lessons   []model.CartLine `json:"lessons"`
    Seats     int              `json:"seats"`
    CreatedAt string           `json:"created_at"`
}

// NewOrderPlacedEvent builds the event for a committed order.
func NewOrderPlacedEvent(o model.Order) OrderPlacedEvent {
    seats := 0
    for _, l := range o.Lessons {
        seats += l.Seats
    }
    return OrderPlacedEvent{
        OrderID:   o.ID,
        Name:      o.Name,
        Phone:     o.Phone,
        Lessons:   o.Lessons,
        Seats:     seats,
        CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
    }
}
