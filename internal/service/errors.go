package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Failure classes surfaced to callers. Handlers map them to HTTP statuses
// with errors.Is.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrNotFound         = errors.New("not found")
	ErrOversold         = errors.New("oversold")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError describes why a request was rejected before it reached
// the store.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid request: " + e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidRequest }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// OversoldError lists the lessons whose seat guard did not match at
// decrement time. A lesson id that does not exist is reported the same way.
type OversoldError struct {
	LessonIDs []uint64
}

func (e *OversoldError) Error() string {
	ids := make([]string, len(e.LessonIDs))
	for i, id := range e.LessonIDs {
		ids[i] = strconv.FormatUint(id, 10)
	}
	return "oversold: no seats left for lessons " + strings.Join(ids, ",")
}

func (e *OversoldError) Is(target error) bool { return target == ErrOversold }

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
