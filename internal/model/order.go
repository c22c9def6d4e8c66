package model

import "time"

// CartLine names one lesson in a submitted cart. Seats is fixed at one
// per line; a cart that wants two seats lists the lesson twice.
type CartLine struct {
    LessonID uint64 `db:"lesson_id" json:"lesson_id" validate:"required"`
    Seats    int    `db:"seats" json:"seats" validate:"gte=0,lte=1"`
}

// Order is the immutable record of a successful cart submission.
//
// Fields:
//  ID        – orders.id, a UUID assigned on creation.
//  Name      – customer name.
//  Phone     – customer phone.
//  Lessons   – order_lines rows, in cart order.
//  CreatedAt – UTC creation time.
type Order struct {
    ID        string     `db:"id" json:"id"`
    Name      string     `db:"name" json:"name"`
    Phone     string     `db:"phone" json:"phone"`
    Lessons   []CartLine `db:"-" json:"lessons"`
    CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
