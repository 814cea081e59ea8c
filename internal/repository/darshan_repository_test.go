package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

var scheduleCols = []string{"ScheduleID", "TempleID", "DarshanTypeID", "FestivalID", "ScheduleDate", "StartTime", "EndTime",
	"CurrentCapacity", "RemainingSlots", "IsCancelled", "DarshanName", "StandardPrice", "Duration"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestListSchedulesWithDateFilter(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDarshanRepo(db)

	mock.ExpectQuery(`WHERE ds.TempleID = \? AND ds.ScheduleDate = \? AND ds.IsCancelled = FALSE AND ds.RemainingSlots > 0`).
		WithArgs(uint64(1), "2026-10-16").
		WillReturnRows(sqlmock.NewRows(scheduleCols).
			AddRow(7, 1, 2, nil, "2026-10-16", "07:00", "10:00", 2000, 1996, false, "VIP Darshan", "200.00", 15))

	got, err := repo.ListSchedules(context.Background(), 1, "2026-10-16", "2026-10-15")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(7), got[0].ID)
	assert.Nil(t, got[0].FestivalID)
	assert.Equal(t, 1996, got[0].RemainingSlots)
	assert.Equal(t, model.Rupees(200), got[0].StandardPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSchedulesDefaultsToToday(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDarshanRepo(db)

	mock.ExpectQuery(`ds.ScheduleDate >= \?`).
		WithArgs(uint64(1), "2026-10-15").
		WillReturnRows(sqlmock.NewRows(scheduleCols))

	got, err := repo.ListSchedules(context.Background(), 1, "", "2026-10-15")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetScheduleMissingIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDarshanRepo(db)

	mock.ExpectQuery("FROM DarshanSchedules ds").WithArgs(uint64(99)).WillReturnRows(sqlmock.NewRows(scheduleCols))

	_, err := repo.GetSchedule(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "schedule", nf.Resource)
}

func TestGetScheduleDriverErrorIsStorage(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDarshanRepo(db)

	mock.ExpectQuery("FROM DarshanSchedules ds").WillReturnError(errors.New("bad connection"))

	_, err := repo.GetSchedule(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestDecrementSlotsIsConditional(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDarshanRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE DarshanSchedules SET RemainingSlots = RemainingSlots - \?`).
		WithArgs(3, uint64(5), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE DarshanSchedules SET RemainingSlots = RemainingSlots - \?`).
		WithArgs(3, uint64(5), 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ok, err := repo.DecrementSlotsTx(context.Background(), tx, 5, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.DecrementSlotsTx(context.Background(), tx, 5, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestoreSlotsClampsToCapacity(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDarshanRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`SET RemainingSlots = LEAST\(CurrentCapacity, RemainingSlots \+ \?\)`).
		WithArgs(4, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.RestoreSlotsTx(context.Background(), tx, 5, 4))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockVisitorSchedulesOrdersByScheduleID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDarshanRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM DarshanBookings b WHERE b.VisitorID = \? AND b.BookingStatus <> \?\) ORDER BY ds.ScheduleID FOR UPDATE OF ds`).
		WithArgs(uint64(3), model.BookingCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"ScheduleID"}).AddRow(7).AddRow(8))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ids, err := repo.LockVisitorSchedulesTx(context.Background(), tx, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{7, 8}, ids)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
