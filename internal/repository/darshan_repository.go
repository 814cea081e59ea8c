package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// DarshanRepo owns darshan types and schedules, including the
// RemainingSlots counter.  Only the booking transaction decrements the
// counter and only booking cancellation or deletion restores it; both go
// through the Tx methods below so the change commits together with the
// booking row.
type DarshanRepo struct {
	db *sql.DB
}

// NewDarshanRepo returns a DarshanRepo bound to db.
func NewDarshanRepo(db *sql.DB) *DarshanRepo { return &DarshanRepo{db: db} }

// DB exposes the underlying handle so services can open transactions
// spanning several repositories.
func (r *DarshanRepo) DB() *sql.DB { return r.db }

// ListTypes returns the darshan types offered by a temple.
func (r *DarshanRepo) ListTypes(ctx context.Context, templeID uint64) ([]model.DarshanType, error) {
	const q = `SELECT DarshanTypeID, TempleID, DarshanName, Description, Duration, MaxCapacity, StandardPrice, IsSpecial
		FROM DarshanTypes WHERE TempleID = ? ORDER BY DarshanTypeID`
	rows, err := r.db.QueryContext(ctx, q, templeID)
	if err != nil {
		return nil, storageErr("list darshan types", err)
	}
	defer rows.Close()
	out := []model.DarshanType{}
	for rows.Next() {
		var d model.DarshanType
		if err := rows.Scan(&d.ID, &d.TempleID, &d.Name, &d.Description, &d.Duration, &d.MaxCapacity, &d.StandardPrice, &d.IsSpecial); err != nil {
			return nil, storageErr("scan darshan type", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list darshan types", err)
	}
	return out, nil
}

const scheduleSelect = `SELECT ds.ScheduleID, ds.TempleID, ds.DarshanTypeID, ds.FestivalID,
	DATE_FORMAT(ds.ScheduleDate, ` + dateFmt + `),
	TIME_FORMAT(ds.StartTime, ` + timeFmt + `), TIME_FORMAT(ds.EndTime, ` + timeFmt + `),
	ds.CurrentCapacity, ds.RemainingSlots, ds.IsCancelled,
	dt.DarshanName, dt.StandardPrice, dt.Duration
	FROM DarshanSchedules ds
	JOIN DarshanTypes dt ON ds.DarshanTypeID = dt.DarshanTypeID`

func scanSchedule(sc interface{ Scan(...any) error }) (*model.Schedule, error) {
	var s model.Schedule
	if err := sc.Scan(&s.ID, &s.TempleID, &s.DarshanTypeID, &s.FestivalID,
		&s.ScheduleDate, &s.StartTime, &s.EndTime,
		&s.CurrentCapacity, &s.RemainingSlots, &s.IsCancelled,
		&s.DarshanName, &s.StandardPrice, &s.Duration); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSchedules returns bookable schedules of a temple: not cancelled and
// with at least one remaining slot.  With a date only that day is listed
// ordered by start time; without one every schedule from today onwards is
// listed ordered by date then start time.
func (r *DarshanRepo) ListSchedules(ctx context.Context, templeID uint64, date, today string) ([]model.Schedule, error) {
	var (
		q    string
		args []any
	)
	if date != "" {
		q = scheduleSelect + `
		WHERE ds.TempleID = ? AND ds.ScheduleDate = ? AND ds.IsCancelled = FALSE AND ds.RemainingSlots > 0
		ORDER BY ds.StartTime`
		args = []any{templeID, date}
	} else {
		q = scheduleSelect + `
		WHERE ds.TempleID = ? AND ds.ScheduleDate >= ? AND ds.IsCancelled = FALSE AND ds.RemainingSlots > 0
		ORDER BY ds.ScheduleDate, ds.StartTime`
		args = []any{templeID, today}
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storageErr("list schedules", err)
	}
	defer rows.Close()
	out := []model.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, storageErr("scan schedule", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list schedules", err)
	}
	return out, nil
}

// GetSchedule returns a schedule joined with its darshan type.  Cancelled
// schedules are returned too; callers decide what that means.
func (r *DarshanRepo) GetSchedule(ctx context.Context, id uint64) (*model.Schedule, error) {
	return getSchedule(ctx, r.db, scheduleSelect+` WHERE ds.ScheduleID = ?`, id)
}

// GetScheduleForUpdateTx reads the schedule and takes a row lock on it
// for the rest of the transaction.  A concurrent booking of the same
// schedule blocks here until this transaction ends, which serializes the
// capacity check and the decrement.
func (r *DarshanRepo) GetScheduleForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Schedule, error) {
	return getSchedule(ctx, tx, scheduleSelect+` WHERE ds.ScheduleID = ? FOR UPDATE`, id)
}

func getSchedule(ctx context.Context, q queryer, query string, id uint64) (*model.Schedule, error) {
	s, err := scanSchedule(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "schedule", ID: id}
	}
	if err != nil {
		return nil, storageErr("get schedule", err)
	}
	return s, nil
}

// LockVisitorSchedulesTx locks, in ScheduleID order, every schedule the
// visitor holds a non-cancelled booking on and returns their ids.  Taking
// these before the visitor row keeps the schedule-then-visitor order the
// booking transaction uses.
func (r *DarshanRepo) LockVisitorSchedulesTx(ctx context.Context, tx *sql.Tx, visitorID uint64) ([]uint64, error) {
	const q = `SELECT ds.ScheduleID FROM DarshanSchedules ds
		WHERE ds.ScheduleID IN (SELECT b.ScheduleID FROM DarshanBookings b WHERE b.VisitorID = ? AND b.BookingStatus <> ?)
		ORDER BY ds.ScheduleID FOR UPDATE OF ds`
	rows, err := tx.QueryContext(ctx, q, visitorID, model.BookingCancelled)
	if err != nil {
		return nil, storageErr("lock visitor schedules", err)
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan schedule id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("lock visitor schedules", err)
	}
	return ids, nil
}

// DecrementSlotsTx subtracts n from RemainingSlots only when at least n
// remain.  It reports false when no row qualified, meaning the schedule
// would have gone negative; the caller must fail the booking.
func (r *DarshanRepo) DecrementSlotsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, n int) (bool, error) {
	const q = `UPDATE DarshanSchedules SET RemainingSlots = RemainingSlots - ?
		WHERE ScheduleID = ? AND RemainingSlots >= ?`
	res, err := tx.ExecContext(ctx, q, n, scheduleID, n)
	if err != nil {
		return false, storageErr("decrement slots", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("decrement slots", err)
	}
	return affected == 1, nil
}

// RestoreSlotsTx adds n back to RemainingSlots, clamped to
// CurrentCapacity.
func (r *DarshanRepo) RestoreSlotsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, n int) error {
	const q = `UPDATE DarshanSchedules SET RemainingSlots = LEAST(CurrentCapacity, RemainingSlots + ?)
		WHERE ScheduleID = ?`
	if _, err := tx.ExecContext(ctx, q, n, scheduleID); err != nil {
		return storageErr("restore slots", err)
	}
	return nil
}
