package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	nf := &NotFoundError{Resource: "schedule", ID: uint64(9)}
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.Equal(t, "schedule 9 not found", nf.Error())

	ic := &InsufficientCapacityError{ScheduleID: 3, Requested: 6, Remaining: 5}
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", ic), ErrInsufficientCapacity)

	assert.ErrorIs(t, Invalid("number_of_people", "must be positive"), ErrValidation)

	ce := &ConflictError{Resource: "visitor", Msg: "has dependent records", Dependents: []string{"DarshanBookings"}}
	assert.ErrorIs(t, ce, ErrConflict)
	assert.Contains(t, ce.Error(), "DarshanBookings")
}

func TestStorageErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := storageErr("insert booking", cause)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, storageErr("noop", nil))

	// already classified errors pass through untouched
	nf := &NotFoundError{Resource: "visitor", ID: 1}
	assert.Same(t, nf, storageErr("get visitor", nf))

	bf := &BookingFailedError{Err: err}
	assert.ErrorIs(t, bf, ErrBookingFailed)
	assert.ErrorIs(t, bf, ErrStorage)
	assert.False(t, errors.Is(bf, sql.ErrNoRows))
}
