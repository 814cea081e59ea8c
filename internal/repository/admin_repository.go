package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// AdminRepo stores administrator credentials.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo returns an AdminRepo bound to db.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

// GetByUsername returns the admin with the given username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := r.db.QueryRowContext(ctx,
		`SELECT AdminID, Username, PasswordHash, CreatedAt FROM Admins WHERE Username = ?`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "admin", ID: username}
	}
	if err != nil {
		return nil, storageErr("get admin", err)
	}
	return &a, nil
}

// Upsert creates the admin or replaces its password hash.
func (r *AdminRepo) Upsert(ctx context.Context, username, hash string) error {
	const q = `INSERT INTO Admins (Username, PasswordHash) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE PasswordHash = VALUES(PasswordHash)`
	if _, err := r.db.ExecContext(ctx, q, username, hash); err != nil {
		return storageErr("upsert admin", err)
	}
	return nil
}
