package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// VisitorRepo reads and writes the Visitors table.  MobileNumber is
// used as the lookup key throughout but is not unique in storage.
type VisitorRepo struct {
	db *sql.DB
}

// NewVisitorRepo returns a VisitorRepo bound to db.
func NewVisitorRepo(db *sql.DB) *VisitorRepo { return &VisitorRepo{db: db} }

// DB exposes the underlying handle for multi-table transactions.
func (r *VisitorRepo) DB() *sql.DB { return r.db }

const visitorSelect = `SELECT VisitorID, FirstName, LastName, MobileNumber, EmailAddress, RegistrationDate,
	Address, City, State, PINCode, DATE_FORMAT(LastVisit, ` + dateFmt + `)
	FROM Visitors`

func scanVisitor(sc interface{ Scan(...any) error }) (*model.Visitor, error) {
	var v model.Visitor
	if err := sc.Scan(&v.ID, &v.FirstName, &v.LastName, &v.MobileNumber, &v.EmailAddress, &v.RegistrationDate,
		&v.Address, &v.City, &v.State, &v.PINCode, &v.LastVisit); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByPhone returns the most recently registered visitor with the
// given mobile number.
func (r *VisitorRepo) FindByPhone(ctx context.Context, phone string) (*model.Visitor, error) {
	v, err := scanVisitor(r.db.QueryRowContext(ctx, visitorSelect+` WHERE MobileNumber = ? ORDER BY VisitorID DESC LIMIT 1`, phone))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "visitor", ID: phone}
	}
	if err != nil {
		return nil, storageErr("find visitor", err)
	}
	return v, nil
}

// GetByID returns the visitor with the given id.
func (r *VisitorRepo) GetByID(ctx context.Context, id uint64) (*model.Visitor, error) {
	return getVisitor(ctx, r.db, visitorSelect+` WHERE VisitorID = ?`, id)
}

// GetByIDForUpdateTx returns the visitor and locks the row.
func (r *VisitorRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Visitor, error) {
	return getVisitor(ctx, tx, visitorSelect+` WHERE VisitorID = ? FOR UPDATE`, id)
}

func getVisitor(ctx context.Context, q queryer, query string, id uint64) (*model.Visitor, error) {
	v, err := scanVisitor(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "visitor", ID: id}
	}
	if err != nil {
		return nil, storageErr("get visitor", err)
	}
	return v, nil
}

// Create inserts a visitor with LastVisit set to lastVisit and returns
// the new id.
func (r *VisitorRepo) Create(ctx context.Context, in model.VisitorInput, lastVisit string) (uint64, error) {
	const q = `INSERT INTO Visitors (FirstName, LastName, MobileNumber, EmailAddress, Address, City, State, PINCode, LastVisit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, in.FirstName, in.LastName, in.MobileNumber, in.EmailAddress,
		in.Address, in.City, in.State, in.PINCode, lastVisit)
	if err != nil {
		return 0, storageErr("insert visitor", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("insert visitor", err)
	}
	return uint64(id), nil
}

// TouchLastVisitTx sets LastVisit to date.  A missing visitor is
// reported as NotFound so the surrounding transaction rolls back.
func (r *VisitorRepo) TouchLastVisitTx(ctx context.Context, tx *sql.Tx, id uint64, date string) error {
	res, err := tx.ExecContext(ctx, `UPDATE Visitors SET LastVisit = ? WHERE VisitorID = ?`, date, id)
	if err != nil {
		return storageErr("update last visit", err)
	}
	// The DSN sets clientFoundRows, so an unchanged date still counts.
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Resource: "visitor", ID: id}
	}
	return nil
}

// Search matches visitors by name or phone substring.  An empty query
// returns the most recent registrations.
func (r *VisitorRepo) Search(ctx context.Context, f model.SearchFilter) ([]model.Visitor, error) {
	q := visitorSelect
	args := []any{}
	if f.Query != "" {
		q += ` WHERE FirstName LIKE ? OR LastName LIKE ? OR MobileNumber LIKE ?`
		p := likeArg(f.Query)
		args = append(args, p, p, p)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q += ` ORDER BY RegistrationDate DESC, VisitorID DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storageErr("search visitors", err)
	}
	defer rows.Close()
	out := []model.Visitor{}
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, storageErr("scan visitor", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("search visitors", err)
	}
	return out, nil
}

// dependentTables lists the tables holding a VisitorID foreign key, in
// the order they must be cleared before the visitor row.
var dependentTables = []string{"DarshanBookings", "Donations", "VirtualPujas", "PrasadamOrders"}

// DependentsTx counts rows referencing the visitor in each dependent
// table.  Tables with no rows are omitted.
func (r *VisitorRepo) DependentsTx(ctx context.Context, tx *sql.Tx, id uint64) (map[string]int64, error) {
	out := map[string]int64{}
	for _, t := range dependentTables {
		var n int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t+` WHERE VisitorID = ?`, id).Scan(&n); err != nil {
			return nil, storageErr("count "+t, err)
		}
		if n > 0 {
			out[t] = n
		}
	}
	return out, nil
}

// DeleteDependentsTx removes every row referencing the visitor and
// returns the number removed per table.
func (r *VisitorRepo) DeleteDependentsTx(ctx context.Context, tx *sql.Tx, id uint64) (map[string]int64, error) {
	out := map[string]int64{}
	for _, t := range dependentTables {
		res, err := tx.ExecContext(ctx, `DELETE FROM `+t+` WHERE VisitorID = ?`, id)
		if err != nil {
			return nil, storageErr("delete "+t, err)
		}
		n, _ := res.RowsAffected()
		out[t] = n
	}
	return out, nil
}

// DeleteTx removes the visitor row itself.
func (r *VisitorRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM Visitors WHERE VisitorID = ?`, id)
	if err != nil {
		return storageErr("delete visitor", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Resource: "visitor", ID: id}
	}
	return nil
}
