package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// SearchRepo backs the admin screens: substring search over each
// activity table, record counts and the recent activity feed.
type SearchRepo struct {
	db *sql.DB
}

// NewSearchRepo returns a SearchRepo bound to db.
func NewSearchRepo(db *sql.DB) *SearchRepo { return &SearchRepo{db: db} }

// whereBuilder accumulates AND-ed conditions and their arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func searchLimit(n int) int {
	if n <= 0 || n > 500 {
		return 500
	}
	return n
}

// SearchBookings matches bookings by visitor name or phone substring and
// optionally by schedule date.
func (r *SearchRepo) SearchBookings(ctx context.Context, f model.SearchFilter) ([]model.BookingSearchRow, error) {
	var w whereBuilder
	if f.Query != "" {
		p := likeArg(f.Query)
		w.add("(v.FirstName LIKE ? OR v.LastName LIKE ? OR v.MobileNumber LIKE ?)", p, p, p)
	}
	if f.Date != "" {
		w.add("ds.ScheduleDate = ?", f.Date)
	}
	q := `SELECT b.BookingID, CONCAT(v.FirstName, ' ', v.LastName), v.MobileNumber, dt.DarshanName,
		DATE_FORMAT(ds.ScheduleDate, ` + dateFmt + `), TIME_FORMAT(ds.StartTime, ` + timeFmt + `),
		b.NumberOfPeople, b.TotalAmount, b.BookingStatus, b.BookingDateTime
		FROM DarshanBookings b
		JOIN Visitors v ON b.VisitorID = v.VisitorID
		JOIN DarshanSchedules ds ON b.ScheduleID = ds.ScheduleID
		JOIN DarshanTypes dt ON ds.DarshanTypeID = dt.DarshanTypeID` + w.sql() + `
		ORDER BY ds.ScheduleDate DESC, ds.StartTime
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, append(w.args, searchLimit(f.Limit))...)
	if err != nil {
		return nil, storageErr("search bookings", err)
	}
	defer rows.Close()
	out := []model.BookingSearchRow{}
	for rows.Next() {
		var b model.BookingSearchRow
		if err := rows.Scan(&b.BookingID, &b.VisitorName, &b.MobileNumber, &b.DarshanName, &b.ScheduleDate,
			&b.StartTime, &b.NumberOfPeople, &b.TotalAmount, &b.BookingStatus, &b.BookedAt); err != nil {
			return nil, storageErr("scan booking row", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search bookings", err)
	}
	return out, nil
}

// SearchDonations matches donations by visitor or donor name/phone and
// optionally by donation day.  Anonymous donations have no visitor, so
// the donor columns stand in.
func (r *SearchRepo) SearchDonations(ctx context.Context, f model.SearchFilter) ([]model.DonationSearchRow, error) {
	var w whereBuilder
	if f.Query != "" {
		p := likeArg(f.Query)
		w.add("(v.FirstName LIKE ? OR v.LastName LIKE ? OR v.MobileNumber LIKE ? OR d.DonorName LIKE ? OR d.DonorPhone LIKE ?)",
			p, p, p, p, p)
	}
	if f.Date != "" {
		w.add("DATE(d.DonationDate) = ?", f.Date)
	}
	q := `SELECT d.DonationID,
		COALESCE(CONCAT(v.FirstName, ' ', v.LastName), d.DonorName, ''),
		COALESCE(v.MobileNumber, d.DonorPhone, ''),
		dt.TypeName, d.Amount, d.PaymentMode, d.ReceiptNumber, d.DonationDate
		FROM Donations d
		LEFT JOIN Visitors v ON d.VisitorID = v.VisitorID
		JOIN DonationTypes dt ON d.DonationTypeID = dt.DonationTypeID` + w.sql() + `
		ORDER BY d.DonationDate DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, append(w.args, searchLimit(f.Limit))...)
	if err != nil {
		return nil, storageErr("search donations", err)
	}
	defer rows.Close()
	out := []model.DonationSearchRow{}
	for rows.Next() {
		var d model.DonationSearchRow
		if err := rows.Scan(&d.DonationID, &d.DonorName, &d.DonorPhone, &d.TypeName, &d.Amount,
			&d.PaymentMode, &d.ReceiptNumber, &d.DonationDate); err != nil {
			return nil, storageErr("scan donation row", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search donations", err)
	}
	return out, nil
}

// SearchPujas matches virtual pujas by visitor name/phone and puja date.
func (r *SearchRepo) SearchPujas(ctx context.Context, f model.SearchFilter) ([]model.PujaSearchRow, error) {
	var w whereBuilder
	if f.Query != "" {
		p := likeArg(f.Query)
		w.add("(v.FirstName LIKE ? OR v.LastName LIKE ? OR v.MobileNumber LIKE ?)", p, p, p)
	}
	if f.Date != "" {
		w.add("vp.PujaDate = ?", f.Date)
	}
	q := `SELECT vp.PujaID, CONCAT(v.FirstName, ' ', v.LastName), v.MobileNumber, pt.PujaName,
		DATE_FORMAT(vp.PujaDate, ` + dateFmt + `), TIME_FORMAT(vp.PujaTime, ` + timeFmt + `),
		vp.TotalAmount, vp.PujaStatus, COALESCE(vp.ReceiptNumber, '')
		FROM VirtualPujas vp
		JOIN Visitors v ON vp.VisitorID = v.VisitorID
		JOIN PujaTypes pt ON vp.PujaTypeID = pt.PujaTypeID` + w.sql() + `
		ORDER BY vp.PujaDate DESC, vp.PujaTime
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, append(w.args, searchLimit(f.Limit))...)
	if err != nil {
		return nil, storageErr("search pujas", err)
	}
	defer rows.Close()
	out := []model.PujaSearchRow{}
	for rows.Next() {
		var p model.PujaSearchRow
		if err := rows.Scan(&p.PujaID, &p.VisitorName, &p.MobileNumber, &p.PujaName, &p.PujaDate,
			&p.PujaTime, &p.TotalAmount, &p.PujaStatus, &p.ReceiptNumber); err != nil {
			return nil, storageErr("scan puja row", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search pujas", err)
	}
	return out, nil
}

// SearchOrders matches prasadam orders by visitor name/phone and order
// day.
func (r *SearchRepo) SearchOrders(ctx context.Context, f model.SearchFilter) ([]model.OrderSearchRow, error) {
	var w whereBuilder
	if f.Query != "" {
		p := likeArg(f.Query)
		w.add("(v.FirstName LIKE ? OR v.LastName LIKE ? OR v.MobileNumber LIKE ?)", p, p, p)
	}
	if f.Date != "" {
		w.add("DATE(po.OrderDate) = ?", f.Date)
	}
	q := `SELECT po.OrderID, CONCAT(v.FirstName, ' ', v.LastName), v.MobileNumber, pt.Name,
		po.Quantity, po.TotalAmount, po.TrackingNumber, po.OrderStatus, po.OrderDate
		FROM PrasadamOrders po
		JOIN Visitors v ON po.VisitorID = v.VisitorID
		JOIN PrasadamTypes pt ON po.PrasadamTypeID = pt.PrasadamTypeID` + w.sql() + `
		ORDER BY po.OrderDate DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, append(w.args, searchLimit(f.Limit))...)
	if err != nil {
		return nil, storageErr("search orders", err)
	}
	defer rows.Close()
	out := []model.OrderSearchRow{}
	for rows.Next() {
		var o model.OrderSearchRow
		if err := rows.Scan(&o.OrderID, &o.VisitorName, &o.MobileNumber, &o.PrasadamName, &o.Quantity,
			&o.TotalAmount, &o.TrackingNumber, &o.OrderStatus, &o.OrderDate); err != nil {
			return nil, storageErr("scan order row", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search orders", err)
	}
	return out, nil
}

// overviewTables are counted for the admin overview.
var overviewTables = []string{"Visitors", "DarshanBookings", "Donations", "VirtualPujas", "PrasadamOrders"}

// Overview counts the rows of each activity table and merges the three
// latest bookings and three latest donations into a feed of at most five
// items, newest first.
func (r *SearchRepo) Overview(ctx context.Context) (*model.Overview, error) {
	ov := &model.Overview{Counts: map[string]int{}}
	for _, t := range overviewTables {
		var n int
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t).Scan(&n); err != nil {
			return nil, storageErr("count "+t, err)
		}
		ov.Counts[t] = n
	}

	feed, err := r.recent(ctx, "booking",
		`SELECT BookingID, TotalAmount, BookingDateTime FROM DarshanBookings ORDER BY BookingDateTime DESC LIMIT 3`)
	if err != nil {
		return nil, err
	}
	donations, err := r.recent(ctx, "donation",
		`SELECT DonationID, Amount, DonationDate FROM Donations ORDER BY DonationDate DESC LIMIT 3`)
	if err != nil {
		return nil, err
	}
	feed = append(feed, donations...)
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].At.After(feed[j].At) })
	if len(feed) > 5 {
		feed = feed[:5]
	}
	ov.RecentActivity = feed
	return ov, nil
}

func (r *SearchRepo) recent(ctx context.Context, kind, q string) ([]model.ActivityItem, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storageErr("recent "+kind, err)
	}
	defer rows.Close()
	out := []model.ActivityItem{}
	for rows.Next() {
		it := model.ActivityItem{Kind: kind}
		if err := rows.Scan(&it.ID, &it.Amount, &it.At); err != nil {
			return nil, storageErr("scan recent "+kind, err)
		}
		if kind == "booking" {
			it.Description = "Booking ID: " + uintStr(it.ID)
		} else {
			it.Description = "Amount: " + it.Amount.Display()
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("recent "+kind, err)
	}
	return out, nil
}
