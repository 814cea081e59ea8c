// Package repository defines the data-access layer over the temple
// schema together with the error types shared by every repository.
// Sentinel values allow higher layers such as services and handlers to
// distinguish failure classes with errors.Is, while the typed errors
// carry the details (which resource, which field, how many slots) for
// messages and logs.  No raw driver error escapes this package: every
// failure from database/sql is wrapped in a StorageError, and
// sql.ErrNoRows is reported as a NotFoundError.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a schedule, visitor or other record
	// does not exist.  Handlers translate it into HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientCapacity is returned when a booking asks for more
	// people than the schedule has remaining slots.  HTTP 409.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrValidation marks malformed or out-of-range input.  HTTP 400.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when an update or delete cannot proceed
	// because of existing state, such as deleting a visitor that still
	// has bookings or cancelling a booking twice.  HTTP 409.
	ErrConflict = errors.New("conflict")

	// ErrStorage marks connection or statement failures from the store.
	ErrStorage = errors.New("storage failure")

	// ErrBookingFailed is returned when the write phase of the booking
	// transaction fails and everything was rolled back.
	ErrBookingFailed = errors.New("booking failed")

	// ErrUnauthorized is returned for bad admin credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// NotFoundError names the missing resource.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientCapacityError reports the requested and remaining slot
// counts at the time of the check.
type InsufficientCapacityError struct {
	ScheduleID uint64
	Requested  int
	Remaining  int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("schedule %d has %d remaining slots, %d requested", e.ScheduleID, e.Remaining, e.Requested)
}

func (e *InsufficientCapacityError) Is(target error) bool { return target == ErrInsufficientCapacity }

// ValidationError names the offending field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is shorthand for a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// ConflictError describes state that blocks an operation.  Dependents
// lists the tables still referencing the resource, if any.
type ConflictError struct {
	Resource   string
	Msg        string
	Dependents []string
}

func (e *ConflictError) Error() string {
	if len(e.Dependents) == 0 {
		return e.Resource + ": " + e.Msg
	}
	return fmt.Sprintf("%s: %s (%s)", e.Resource, e.Msg, strings.Join(e.Dependents, ", "))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// StorageError wraps a database/sql failure together with the operation
// that produced it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// BookingFailedError wraps the cause of a rolled-back booking.
type BookingFailedError struct {
	Err error
}

func (e *BookingFailedError) Error() string { return "booking failed: " + e.Err.Error() }

func (e *BookingFailedError) Unwrap() error { return e.Err }

func (e *BookingFailedError) Is(target error) bool { return target == ErrBookingFailed }

// storageErr wraps err in a StorageError.  Errors that already belong to
// the taxonomy are returned unchanged.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInsufficientCapacity) || errors.Is(err, ErrValidation) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Storage wraps err as a StorageError for callers outside the package
// that drive database/sql directly, such as transaction begin/commit.
func Storage(op string, err error) error { return storageErr(op, err) }
