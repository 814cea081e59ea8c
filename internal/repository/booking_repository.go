package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// BookingRepo persists darshan bookings.  A booking row is an
// append-only fact referencing a schedule; only its status changes
// after creation.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to db.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts the booking within tx and fills in the generated ID.
// BookingDateTime is left to the column default.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.DarshanBooking) error {
	const q = `INSERT INTO DarshanBookings
		(ScheduleID, VisitorID, NumberOfPeople, TotalAmount, PaymentStatus, PaymentReference, QRCode, BookingStatus, SpecialRequirements)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.ScheduleID, b.VisitorID, b.NumberOfPeople, b.TotalAmount,
		b.PaymentStatus, b.PaymentReference, b.QRCode, b.BookingStatus, b.SpecialRequirements)
	if err != nil {
		return storageErr("insert booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert booking", err)
	}
	b.ID = uint64(id)
	return nil
}

// GetForUpdateTx loads the booking and locks its row.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.DarshanBooking, error) {
	const q = `SELECT BookingID, ScheduleID, VisitorID, BookingDateTime, NumberOfPeople, TotalAmount,
		PaymentStatus, COALESCE(PaymentReference, ''), BookingStatus, SpecialRequirements
		FROM DarshanBookings WHERE BookingID = ? FOR UPDATE`
	var b model.DarshanBooking
	err := tx.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.ScheduleID, &b.VisitorID, &b.BookingDateTime,
		&b.NumberOfPeople, &b.TotalAmount, &b.PaymentStatus, &b.PaymentReference, &b.BookingStatus, &b.SpecialRequirements)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "booking", ID: id}
	}
	if err != nil {
		return nil, storageErr("get booking", err)
	}
	return &b, nil
}

// DeleteTx removes the booking row.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM DarshanBookings WHERE BookingID = ?`, id)
	if err != nil {
		return storageErr("delete booking", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Resource: "booking", ID: id}
	}
	return nil
}

// SetStatusTx changes BookingStatus.
func (r *BookingRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	if _, err := tx.ExecContext(ctx, `UPDATE DarshanBookings SET BookingStatus = ? WHERE BookingID = ?`, status, id); err != nil {
		return storageErr("update booking status", err)
	}
	return nil
}

// ActiveByVisitorTx returns the visitor's non-cancelled bookings with
// their schedule and head count, locking the rows.  Used when a visitor
// is deleted together with their bookings.
func (r *BookingRepo) ActiveByVisitorTx(ctx context.Context, tx *sql.Tx, visitorID uint64) ([]model.DarshanBooking, error) {
	const q = `SELECT BookingID, ScheduleID, NumberOfPeople FROM DarshanBookings
		WHERE VisitorID = ? AND BookingStatus <> ? FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, visitorID, model.BookingCancelled)
	if err != nil {
		return nil, storageErr("list visitor bookings", err)
	}
	defer rows.Close()
	var out []model.DarshanBooking
	for rows.Next() {
		var b model.DarshanBooking
		if err := rows.Scan(&b.ID, &b.ScheduleID, &b.NumberOfPeople); err != nil {
			return nil, storageErr("scan booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list visitor bookings", err)
	}
	return out, nil
}

// Detail returns the booking joined with visitor, schedule, darshan type
// and temple.
func (r *BookingRepo) Detail(ctx context.Context, id uint64) (*model.BookingDetail, error) {
	const q = `SELECT b.BookingID, b.ScheduleID, b.VisitorID, v.FirstName, v.LastName, v.MobileNumber,
		dt.DarshanName, DATE_FORMAT(ds.ScheduleDate, ` + dateFmt + `),
		TIME_FORMAT(ds.StartTime, ` + timeFmt + `), TIME_FORMAT(ds.EndTime, ` + timeFmt + `),
		b.NumberOfPeople, b.TotalAmount, b.PaymentStatus, COALESCE(b.PaymentReference, ''),
		b.BookingStatus, COALESCE(b.QRCode, ''), t.TempleName, t.Location
		FROM DarshanBookings b
		JOIN Visitors v ON b.VisitorID = v.VisitorID
		JOIN DarshanSchedules ds ON b.ScheduleID = ds.ScheduleID
		JOIN DarshanTypes dt ON ds.DarshanTypeID = dt.DarshanTypeID
		JOIN Temples t ON ds.TempleID = t.TempleID
		WHERE b.BookingID = ?`
	var d model.BookingDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.BookingID, &d.ScheduleID, &d.VisitorID,
		&d.FirstName, &d.LastName, &d.MobileNumber, &d.DarshanName, &d.ScheduleDate, &d.StartTime, &d.EndTime,
		&d.NumberOfPeople, &d.TotalAmount, &d.PaymentStatus, &d.PaymentReference,
		&d.BookingStatus, &d.QRCode, &d.TempleName, &d.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "booking", ID: id}
	}
	if err != nil {
		return nil, storageErr("get booking detail", err)
	}
	return &d, nil
}

// ListByVisitor returns a visitor's bookings, latest schedule first.
func (r *BookingRepo) ListByVisitor(ctx context.Context, visitorID uint64) ([]model.VisitorBooking, error) {
	const q = `SELECT b.BookingID, dt.DarshanName, DATE_FORMAT(ds.ScheduleDate, ` + dateFmt + `),
		TIME_FORMAT(ds.StartTime, ` + timeFmt + `), TIME_FORMAT(ds.EndTime, ` + timeFmt + `),
		b.NumberOfPeople, b.TotalAmount, b.BookingStatus, t.TempleName
		FROM DarshanBookings b
		JOIN DarshanSchedules ds ON b.ScheduleID = ds.ScheduleID
		JOIN DarshanTypes dt ON ds.DarshanTypeID = dt.DarshanTypeID
		JOIN Temples t ON ds.TempleID = t.TempleID
		WHERE b.VisitorID = ?
		ORDER BY ds.ScheduleDate DESC, ds.StartTime`
	rows, err := r.db.QueryContext(ctx, q, visitorID)
	if err != nil {
		return nil, storageErr("list visitor bookings", err)
	}
	defer rows.Close()
	out := []model.VisitorBooking{}
	for rows.Next() {
		var b model.VisitorBooking
		if err := rows.Scan(&b.BookingID, &b.DarshanName, &b.ScheduleDate, &b.StartTime, &b.EndTime,
			&b.NumberOfPeople, &b.TotalAmount, &b.BookingStatus, &b.TempleName); err != nil {
			return nil, storageErr("scan visitor booking", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list visitor bookings", err)
	}
	return out, nil
}
