// Package repository holds the MySQL-backed lesson catalog and order log.
// Sentinel errors defined here are shared with the in-memory store so
// higher layers can tell a missing lesson apart from a broken database.
package repository

import "errors"

// ErrLessonNotFound is returned when no lesson has the requested id.
// Handlers translate it into an HTTP 404 response.
var ErrLessonNotFound = errors.New("lesson not found")
