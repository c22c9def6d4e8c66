package model

import "github.com/shopspring/decimal"

// SeedLessons returns the starter catalog shipped with the storefront. The
// initial migration inserts the same rows, and the memory store starts from
// them.
func SeedLessons() []Lesson {
    subjects := []string{
        "Mathematics", "English", "Science", "History", "Geography",
        "Art", "Music", "Physical Education", "Computer Science", "Drama",
    }
    out := make([]Lesson, 0, len(subjects))
    for i, s := range subjects {
        out = append(out, Lesson{
            ID:       uint64(i + 1),
            Subject:  s,
            Location: "London",
            Price:    decimal.NewFromInt(100),
            Spaces:   5,
            Image:    "/images/" + imageName(s),
        })
    }
    return out
}

func imageName(subject string) string {
    b := make([]byte, 0, len(subject)+4)
    for i := 0; i < len(subject); i++ {
        ch := subject[i]
        switch {
        case ch >= 'A' && ch <= 'Z':
            b = append(b, ch+32)
        case ch == ' ':
            b = append(b, '-')
        default:
            b = append(b, ch)
        }
    }
    return string(append(b, ".png"...))
}
