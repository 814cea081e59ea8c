package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// PrasadamRepo reads prasadam types and records orders.
type PrasadamRepo struct {
	db *sql.DB
}

func NewPrasadamRepo(db *sql.DB) *PrasadamRepo { return &PrasadamRepo{db: db} }

func (r *PrasadamRepo) DB() *sql.DB { return r.db }

const prasadamTypeSelect = `SELECT PrasadamTypeID, TempleID, Name, Description, Price, IsActive FROM PrasadamTypes`

// ListTypes returns the active prasadam types of a temple.
func (r *PrasadamRepo) ListTypes(ctx context.Context, templeID uint64) ([]model.PrasadamType, error) {
	rows, err := r.db.QueryContext(ctx, prasadamTypeSelect+` WHERE TempleID = ? AND IsActive = TRUE ORDER BY PrasadamTypeID`, templeID)
	if err != nil {
		return nil, storageErr("list prasadam types", err)
	}
	defer rows.Close()
	out := []model.PrasadamType{}
	for rows.Next() {
		var p model.PrasadamType
		if err := rows.Scan(&p.ID, &p.TempleID, &p.Name, &p.Description, &p.Price, &p.IsActive); err != nil {
			return nil, storageErr("scan prasadam type", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list prasadam types", err)
	}
	return out, nil
}

// GetTypeTx returns one prasadam type.
func (r *PrasadamRepo) GetTypeTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.PrasadamType, error) {
	var p model.PrasadamType
	err := tx.QueryRowContext(ctx, prasadamTypeSelect+` WHERE PrasadamTypeID = ?`, id).
		Scan(&p.ID, &p.TempleID, &p.Name, &p.Description, &p.Price, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "prasadam type", ID: id}
	}
	if err != nil {
		return nil, storageErr("get prasadam type", err)
	}
	return &p, nil
}

// CreateTx inserts the order and fills in its ID.  The tracking number
// is set afterwards with SetTrackingTx.
func (r *PrasadamRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.PrasadamOrder) error {
	const q = `INSERT INTO PrasadamOrders (VisitorID, TempleID, PrasadamTypeID, Quantity,
		TotalAmount, ShippingAddress, OrderStatus, EstimatedDelivery)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, o.VisitorID, o.TempleID, o.PrasadamTypeID, o.Quantity,
		o.TotalAmount, o.ShippingAddress, o.OrderStatus, o.EstimatedDelivery)
	if err != nil {
		return storageErr("insert prasadam order", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert prasadam order", err)
	}
	o.ID = uint64(id)
	return nil
}

// SetTrackingTx stores the tracking number of an order.
func (r *PrasadamRepo) SetTrackingTx(ctx context.Context, tx *sql.Tx, id uint64, tracking string) error {
	if _, err := tx.ExecContext(ctx, `UPDATE PrasadamOrders SET TrackingNumber = ? WHERE OrderID = ?`, tracking, id); err != nil {
		return storageErr("set tracking number", err)
	}
	return nil
}

// ListByVisitor returns a visitor's orders, newest first.
func (r *PrasadamRepo) ListByVisitor(ctx context.Context, visitorID uint64) ([]model.VisitorPrasadamOrder, error) {
	const q = `SELECT po.OrderID, pt.Name, po.OrderDate, po.Quantity, po.TotalAmount, po.TrackingNumber,
		po.OrderStatus, DATE_FORMAT(po.EstimatedDelivery, ` + dateFmt + `)
		FROM PrasadamOrders po
		JOIN PrasadamTypes pt ON po.PrasadamTypeID = pt.PrasadamTypeID
		WHERE po.VisitorID = ?
		ORDER BY po.OrderDate DESC`
	rows, err := r.db.QueryContext(ctx, q, visitorID)
	if err != nil {
		return nil, storageErr("list visitor orders", err)
	}
	defer rows.Close()
	out := []model.VisitorPrasadamOrder{}
	for rows.Next() {
		var o model.VisitorPrasadamOrder
		if err := rows.Scan(&o.OrderID, &o.PrasadamName, &o.OrderDate, &o.Quantity, &o.TotalAmount,
			&o.TrackingNumber, &o.OrderStatus, &o.EstimatedDelivery); err != nil {
			return nil, storageErr("scan visitor order", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list visitor orders", err)
	}
	return out, nil
}

// Delete removes one prasadam order.
func (r *PrasadamRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "prasadam order", `DELETE FROM PrasadamOrders WHERE OrderID = ?`, id)
}
