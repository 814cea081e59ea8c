package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// PujaRepo reads puja types and records virtual puja bookings.
type PujaRepo struct {
	db *sql.DB
}

func NewPujaRepo(db *sql.DB) *PujaRepo { return &PujaRepo{db: db} }

func (r *PujaRepo) DB() *sql.DB { return r.db }

const pujaTypeSelect = `SELECT PujaTypeID, TempleID, PujaName, Description, Duration, Price, IsActive FROM PujaTypes`

// ListTypes returns the active puja types of a temple.
func (r *PujaRepo) ListTypes(ctx context.Context, templeID uint64) ([]model.PujaType, error) {
	rows, err := r.db.QueryContext(ctx, pujaTypeSelect+` WHERE TempleID = ? AND IsActive = TRUE ORDER BY PujaTypeID`, templeID)
	if err != nil {
		return nil, storageErr("list puja types", err)
	}
	defer rows.Close()
	out := []model.PujaType{}
	for rows.Next() {
		var p model.PujaType
		if err := rows.Scan(&p.ID, &p.TempleID, &p.Name, &p.Description, &p.Duration, &p.Price, &p.IsActive); err != nil {
			return nil, storageErr("scan puja type", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list puja types", err)
	}
	return out, nil
}

// GetTypeTx returns one puja type.
func (r *PujaRepo) GetTypeTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.PujaType, error) {
	var p model.PujaType
	err := tx.QueryRowContext(ctx, pujaTypeSelect+` WHERE PujaTypeID = ?`, id).
		Scan(&p.ID, &p.TempleID, &p.Name, &p.Description, &p.Duration, &p.Price, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "puja type", ID: id}
	}
	if err != nil {
		return nil, storageErr("get puja type", err)
	}
	return &p, nil
}

// CreateTx inserts the puja booking and fills in its ID.
func (r *PujaRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.VirtualPuja) error {
	const q = `INSERT INTO VirtualPujas (TempleID, VisitorID, PujaTypeID, PujaDate, PujaTime,
		TotalAmount, PujaStatus, DevoteeMessage, ReceiptNumber)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.TempleID, p.VisitorID, p.PujaTypeID, p.PujaDate, p.PujaTime,
		p.TotalAmount, p.PujaStatus, p.DevoteeMessage, p.ReceiptNumber)
	if err != nil {
		return storageErr("insert virtual puja", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert virtual puja", err)
	}
	p.ID = uint64(id)
	return nil
}

// ListByVisitor returns a visitor's pujas, latest date first.
func (r *PujaRepo) ListByVisitor(ctx context.Context, visitorID uint64) ([]model.VisitorPuja, error) {
	const q = `SELECT vp.PujaID, pt.PujaName, DATE_FORMAT(vp.PujaDate, ` + dateFmt + `),
		TIME_FORMAT(vp.PujaTime, ` + timeFmt + `), vp.TotalAmount, vp.PujaStatus, COALESCE(vp.ReceiptNumber, '')
		FROM VirtualPujas vp
		JOIN PujaTypes pt ON vp.PujaTypeID = pt.PujaTypeID
		WHERE vp.VisitorID = ?
		ORDER BY vp.PujaDate DESC, vp.PujaTime DESC`
	rows, err := r.db.QueryContext(ctx, q, visitorID)
	if err != nil {
		return nil, storageErr("list visitor pujas", err)
	}
	defer rows.Close()
	out := []model.VisitorPuja{}
	for rows.Next() {
		var p model.VisitorPuja
		if err := rows.Scan(&p.PujaID, &p.PujaName, &p.PujaDate, &p.PujaTime, &p.TotalAmount, &p.PujaStatus, &p.ReceiptNumber); err != nil {
			return nil, storageErr("scan visitor puja", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list visitor pujas", err)
	}
	return out, nil
}

// Delete removes one virtual puja.
func (r *PujaRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "virtual puja", `DELETE FROM VirtualPujas WHERE PujaID = ?`, id)
}
