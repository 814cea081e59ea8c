package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// TempleRepo reads temples and their festivals.  Temples are reference
// data maintained by seeding, so the repo exposes no writes.
type TempleRepo struct {
	db *sql.DB
}

// NewTempleRepo returns a TempleRepo bound to db.
func NewTempleRepo(db *sql.DB) *TempleRepo { return &TempleRepo{db: db} }

const templeColumns = `TempleID, TempleName, Location, MaxDailyCapacity, FoundingYear, Description,
	TIME_FORMAT(OpeningTime, ` + timeFmt + `), TIME_FORMAT(ClosingTime, ` + timeFmt + `),
	ContactNumber, EmailAddress, WebsiteURL, IsActive`

func scanTemple(sc interface{ Scan(...any) error }) (*model.Temple, error) {
	var t model.Temple
	if err := sc.Scan(&t.ID, &t.Name, &t.Location, &t.MaxDailyCapacity, &t.FoundingYear, &t.Description,
		&t.OpeningTime, &t.ClosingTime, &t.ContactNumber, &t.EmailAddress, &t.WebsiteURL, &t.IsActive); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActive returns every active temple ordered by id.
func (r *TempleRepo) ListActive(ctx context.Context) ([]model.Temple, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+templeColumns+` FROM Temples WHERE IsActive = TRUE ORDER BY TempleID`)
	if err != nil {
		return nil, storageErr("list temples", err)
	}
	defer rows.Close()
	out := []model.Temple{}
	for rows.Next() {
		t, err := scanTemple(rows)
		if err != nil {
			return nil, storageErr("scan temple", err)
		}
		out = append(out, *t)
	}
	return out, storageErr("list temples", rows.Err())
}

// Get returns one temple regardless of its active flag.
func (r *TempleRepo) Get(ctx context.Context, id uint64) (*model.Temple, error) {
	t, err := scanTemple(r.db.QueryRowContext(ctx, `SELECT `+templeColumns+` FROM Temples WHERE TempleID = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Resource: "temple", ID: id}
	}
	if err != nil {
		return nil, storageErr("get temple", err)
	}
	return t, nil
}

// UpcomingFestivals lists festivals of the temple that have not ended
// before today, earliest first.
func (r *TempleRepo) UpcomingFestivals(ctx context.Context, templeID uint64, today string) ([]model.Festival, error) {
	const q = `SELECT FestivalID, TempleID, FestivalName, Description,
		DATE_FORMAT(StartDate, ` + dateFmt + `), DATE_FORMAT(EndDate, ` + dateFmt + `), SpecialDarshanAvailable
		FROM Festivals
		WHERE TempleID = ? AND EndDate >= ?
		ORDER BY StartDate`
	rows, err := r.db.QueryContext(ctx, q, templeID, today)
	if err != nil {
		return nil, storageErr("list festivals", err)
	}
	defer rows.Close()
	out := []model.Festival{}
	for rows.Next() {
		var f model.Festival
		if err := rows.Scan(&f.ID, &f.TempleID, &f.Name, &f.Description, &f.StartDate, &f.EndDate, &f.SpecialDarshanAvailable); err != nil {
			return nil, storageErr("scan festival", err)
		}
		out = append(out, f)
	}
	return out, storageErr("list festivals", rows.Err())
}
