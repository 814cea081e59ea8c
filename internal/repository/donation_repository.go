package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// DonationRepo reads donation types and records donations.
type DonationRepo struct {
	db *sql.DB
}

// NewDonationRepo returns a DonationRepo bound to db.
func NewDonationRepo(db *sql.DB) *DonationRepo { return &DonationRepo{db: db} }

// DB exposes the underlying handle for transactions.
func (r *DonationRepo) DB() *sql.DB { return r.db }

// ListTypes returns the active donation types of a temple in display
// order.
func (r *DonationRepo) ListTypes(ctx context.Context, templeID uint64) ([]model.DonationType, error) {
	const q = `SELECT DonationTypeID, TempleID, TypeName, Description, MinimumAmount, IsActive, DisplayOrder
		FROM DonationTypes WHERE TempleID = ? AND IsActive = TRUE ORDER BY DisplayOrder`
	rows, err := r.db.QueryContext(ctx, q, templeID)
	if err != nil {
		return nil, storageErr("list donation types", err)
	}
	defer rows.Close()
	out := []model.DonationType{}
	for rows.Next() {
		var d model.DonationType
		if err := rows.Scan(&d.ID, &d.TempleID, &d.Name, &d.Description, &d.MinimumAmount, &d.IsActive, &d.DisplayOrder); err != nil {
			return nil, storageErr("scan donation type", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list donation types", err)
	}
	return out, nil
}

// GetTypeTx returns one donation type, active or not.
func (r *DonationRepo) GetTypeTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.DonationType, error) {
	const q = `SELECT DonationTypeID, TempleID, TypeName, Description, MinimumAmount, IsActive, DisplayOrder
		FROM DonationTypes WHERE DonationTypeID = ?`
	var d model.DonationType
	err := tx.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.TempleID, &d.Name, &d.Description, &d.MinimumAmount, &d.IsActive, &d.DisplayOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "donation type", ID: id}
	}
	if err != nil {
		return nil, storageErr("get donation type", err)
	}
	return &d, nil
}

// CreateTx inserts the donation and fills in its ID.  The receipt
// number depends on the id, so it is set afterwards with
// SetReceiptTx.
func (r *DonationRepo) CreateTx(ctx context.Context, tx *sql.Tx, d *model.Donation) error {
	const q = `INSERT INTO Donations (TempleID, DonationTypeID, VisitorID, Amount, PaymentMode,
		TransactionReference, IsAnonymous, DonorName, DonorPhone, DonorEmail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var visitor any
	if d.VisitorID != nil {
		visitor = *d.VisitorID
	}
	res, err := tx.ExecContext(ctx, q, d.TempleID, d.DonationTypeID, visitor, d.Amount, d.PaymentMode,
		d.TransactionReference, d.IsAnonymous, d.DonorName, d.DonorPhone, d.DonorEmail)
	if err != nil {
		return storageErr("insert donation", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert donation", err)
	}
	d.ID = uint64(id)
	return nil
}

// SetReceiptTx stores the receipt number of a donation.
func (r *DonationRepo) SetReceiptTx(ctx context.Context, tx *sql.Tx, id uint64, receipt string) error {
	if _, err := tx.ExecContext(ctx, `UPDATE Donations SET ReceiptNumber = ? WHERE DonationID = ?`, receipt, id); err != nil {
		return storageErr("set donation receipt", err)
	}
	return nil
}

// ListByVisitor returns a visitor's donations, newest first.
func (r *DonationRepo) ListByVisitor(ctx context.Context, visitorID uint64) ([]model.VisitorDonation, error) {
	const q = `SELECT d.DonationID, dt.TypeName, d.DonationDate, d.Amount, d.PaymentMode, d.ReceiptNumber, t.TempleName
		FROM Donations d
		JOIN DonationTypes dt ON d.DonationTypeID = dt.DonationTypeID
		JOIN Temples t ON d.TempleID = t.TempleID
		WHERE d.VisitorID = ?
		ORDER BY d.DonationDate DESC`
	rows, err := r.db.QueryContext(ctx, q, visitorID)
	if err != nil {
		return nil, storageErr("list visitor donations", err)
	}
	defer rows.Close()
	out := []model.VisitorDonation{}
	for rows.Next() {
		var d model.VisitorDonation
		if err := rows.Scan(&d.DonationID, &d.TypeName, &d.DonationDate, &d.Amount, &d.PaymentMode, &d.ReceiptNumber, &d.TempleName); err != nil {
			return nil, storageErr("scan visitor donation", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list visitor donations", err)
	}
	return out, nil
}

// Delete removes one donation.
func (r *DonationRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "donation", `DELETE FROM Donations WHERE DonationID = ?`, id)
}

func deleteByID(ctx context.Context, q queryer, resource, stmt string, id uint64) error {
	res, err := q.ExecContext(ctx, stmt, id)
	if err != nil {
		return storageErr("delete "+resource, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return nil
}
