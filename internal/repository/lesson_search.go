package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/lesson-booking/internal/model"
)

// numericTerm holds the numeric interpretation of a search query.
type numericTerm struct {
	price     decimal.Decimal
	spaces    int64
	hasSpaces bool
}

func parseNumericTerm(q string) (numericTerm, bool) {
	d, err := decimal.NewFromString(q)
	if err != nil {
		return numericTerm{}, false
	}
	n := numericTerm{price: d}
	if d.IsInteger() {
		n.spaces = d.IntPart()
		n.hasSpaces = true
	}
	return n, true
}

func (n numericTerm) clause() (string, []any) {
	where := "price = ?"
	args := []any{n.price.String()}
	if n.hasSpaces {
		where += " OR spaces = ?"
		args = append(args, n.spaces)
	}
	return where, args
}

// Search looks lessons up by text. Substring matches on subject or
// location always count, so "ond" finds "London"; the FULLTEXT index on
// (subject, location) adds word-prefix matches for multi-word queries.
// Numeric queries additionally match price or spaces exactly. If the
// combined query fails, typically because the index is missing, the
// substring scan alone is retried and only its failure is reported.
func (r *LessonRepo) Search(ctx context.Context, query string) ([]model.Lesson, error) {
	q := strings.TrimSpace(query)
	num, isNum := parseNumericTerm(q)
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"

	where := "LOWER(subject) LIKE ? OR LOWER(location) LIKE ?"
	args := []any{pattern, pattern}
	if isNum {
		c, a := num.clause()
		where += " OR " + c
		args = append(args, a...)
	}

	if terms := booleanTerms(q); terms != "" {
		out, err := r.selectLessons(ctx,
			"MATCH(subject, location) AGAINST (? IN BOOLEAN MODE) OR "+where,
			append([]any{terms}, args...)...)
		if err == nil {
			return out, nil
		}
		r.log.WithError(err).WithField("query", q).Warn("full-text search failed, falling back to scan")
	}

	out, err := r.selectLessons(ctx, where, args...)
	if err != nil {
		return nil, fmt.Errorf("searching lessons: %w", err)
	}
	return out, nil
}

func (r *LessonRepo) selectLessons(ctx context.Context, where string, args ...any) ([]model.Lesson, error) {
	out := []model.Lesson{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+lessonColumns+` FROM lessons WHERE `+where+` ORDER BY id ASC`, args...)
	return out, err
}

// booleanTerms turns free text into a BOOLEAN MODE expression where every
// word is an optional prefix term. Operator characters are dropped.
func booleanTerms(q string) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`+-<>()~*"@`, r) {
			return ' '
		}
		return r
	}, q)
	words := strings.Fields(clean)
	for i, w := range words {
		words[i] = w + "*"
	}
	return strings.Join(words, " ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
