package model

import "github.com/shopspring/decimal"

func init() {
    // Prices travel as JSON numbers so browser clients can sort them.
    decimal.MarshalJSONWithoutQuotes = true
}

// Lesson is a bookable class offering with a finite number of seats.
//
// Fields:
//  ID       – lessons.id, stable and referenced by orders.
//  Subject  – what is taught.
//  Location – where the lesson takes place.
//  Price    – non-negative price per seat.
//  Spaces   – seats still available; never negative.
//  Image    – image path or absolute URI.
type Lesson struct {
    ID       uint64          `db:"id" json:"id"`
    Subject  string          `db:"subject" json:"subject"`
    Location string          `db:"location" json:"location"`
    Price    decimal.Decimal `db:"price" json:"price"`
    Spaces   int             `db:"spaces" json:"spaces"`
    Image    string          `db:"image" json:"image"`
}

// Sortable lesson columns, keyed by the JSON field name clients send.
var LessonSortFields = map[string]string{
    "id":       "id",
    "subject":  "subject",
    "location": "location",
    "price":    "price",
    "spaces":   "spaces",
}

// LessonSort selects ordering for catalog listings. A zero value means
// ascending by id.
type LessonSort struct {
    Field string
    Desc  bool
}
