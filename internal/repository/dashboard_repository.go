package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// DashboardRepo runs the aggregate queries behind the admin dashboard.
type DashboardRepo struct {
	db *sql.DB
}

// NewDashboardRepo returns a DashboardRepo bound to db.
func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{db: db} }

// Get collects today's booking and donation totals, the ten most recent
// visitors who booked at the temple, and per-type booking and donation
// statistics.  SUM over no rows yields NULL, which scans as zero.
func (r *DashboardRepo) Get(ctx context.Context, templeID uint64, today string) (*model.Dashboard, error) {
	d := &model.Dashboard{TempleID: templeID, Date: today}

	const bookingsQ = `SELECT COUNT(*), COALESCE(SUM(b.NumberOfPeople), 0), COALESCE(SUM(b.TotalAmount), 0)
		FROM DarshanBookings b
		JOIN DarshanSchedules ds ON b.ScheduleID = ds.ScheduleID
		WHERE ds.TempleID = ? AND ds.ScheduleDate = ?`
	if err := r.db.QueryRowContext(ctx, bookingsQ, templeID, today).
		Scan(&d.TodayBookings, &d.TodayVisitors, &d.TodayBookingAmt); err != nil {
		return nil, storageErr("dashboard bookings", err)
	}

	const donationsQ = `SELECT COUNT(*), COALESCE(SUM(Amount), 0)
		FROM Donations
		WHERE TempleID = ? AND DATE(DonationDate) = ?`
	if err := r.db.QueryRowContext(ctx, donationsQ, templeID, today).
		Scan(&d.TodayDonations, &d.TodayDonatedAmt); err != nil {
		return nil, storageErr("dashboard donations", err)
	}

	var err error
	if d.RecentVisitors, err = r.recentVisitors(ctx, templeID); err != nil {
		return nil, err
	}
	if d.DarshanStats, err = r.darshanStats(ctx, templeID); err != nil {
		return nil, err
	}
	if d.DonationStats, err = r.donationStats(ctx, templeID); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DashboardRepo) recentVisitors(ctx context.Context, templeID uint64) ([]model.RecentVisitor, error) {
	const q = `SELECT v.VisitorID, v.FirstName, v.LastName, v.MobileNumber, DATE_FORMAT(v.LastVisit, ` + dateFmt + `)
		FROM Visitors v
		WHERE v.VisitorID IN (
			SELECT b.VisitorID FROM DarshanBookings b
			JOIN DarshanSchedules ds ON b.ScheduleID = ds.ScheduleID
			WHERE ds.TempleID = ?)
		ORDER BY v.LastVisit DESC, v.VisitorID DESC
		LIMIT 10`
	rows, err := r.db.QueryContext(ctx, q, templeID)
	if err != nil {
		return nil, storageErr("dashboard recent visitors", err)
	}
	defer rows.Close()
	out := []model.RecentVisitor{}
	for rows.Next() {
		var v model.RecentVisitor
		if err := rows.Scan(&v.VisitorID, &v.FirstName, &v.LastName, &v.MobileNumber, &v.LastVisit); err != nil {
			return nil, storageErr("scan recent visitor", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("dashboard recent visitors", err)
	}
	return out, nil
}

func (r *DashboardRepo) darshanStats(ctx context.Context, templeID uint64) ([]model.DarshanStat, error) {
	const q = `SELECT dt.DarshanName, COUNT(b.BookingID)
		FROM DarshanBookings b
		JOIN DarshanSchedules ds ON b.ScheduleID = ds.ScheduleID
		JOIN DarshanTypes dt ON ds.DarshanTypeID = dt.DarshanTypeID
		WHERE ds.TempleID = ?
		GROUP BY dt.DarshanName
		ORDER BY dt.DarshanName`
	rows, err := r.db.QueryContext(ctx, q, templeID)
	if err != nil {
		return nil, storageErr("dashboard darshan stats", err)
	}
	defer rows.Close()
	out := []model.DarshanStat{}
	for rows.Next() {
		var s model.DarshanStat
		if err := rows.Scan(&s.DarshanName, &s.BookingCount); err != nil {
			return nil, storageErr("scan darshan stat", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("dashboard darshan stats", err)
	}
	return out, nil
}

func (r *DashboardRepo) donationStats(ctx context.Context, templeID uint64) ([]model.DonationStat, error) {
	const q = `SELECT dt.TypeName, COUNT(d.DonationID), COALESCE(SUM(d.Amount), 0)
		FROM Donations d
		JOIN DonationTypes dt ON d.DonationTypeID = dt.DonationTypeID
		WHERE d.TempleID = ?
		GROUP BY dt.TypeName
		ORDER BY dt.TypeName`
	rows, err := r.db.QueryContext(ctx, q, templeID)
	if err != nil {
		return nil, storageErr("dashboard donation stats", err)
	}
	defer rows.Close()
	out := []model.DonationStat{}
	for rows.Next() {
		var s model.DonationStat
		if err := rows.Scan(&s.TypeName, &s.DonationCount, &s.TotalAmount); err != nil {
			return nil, storageErr("scan donation stat", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("dashboard donation stats", err)
	}
	return out, nil
}
