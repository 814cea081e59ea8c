package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

// SeedDays is how many days of darshan schedules Seed creates.
const SeedDays = 7

type seedDarshanType struct {
	name, desc string
	duration   int
	capacity   int
	price      model.Money
	special    bool
}

type seedWindow struct {
	start, end string
	capacity   int
}

var (
	seedDarshanTypes = []seedDarshanType{
		{"Regular Darshan", "Standard darshan for all devotees", 30, 10000, 0, false},
		{"VIP Darshan", "Premium darshan with shorter wait times", 15, 2000, model.Rupees(200), true},
		{"Morning Aarti", "Special morning aarti darshan", 45, 1000, model.Rupees(300), true},
		{"Evening Aarti", "Special evening aarti darshan", 45, 1000, model.Rupees(300), true},
	}

	// seedWindows holds the daily schedule windows, indexed like
	// seedDarshanTypes.
	seedWindows = [][]seedWindow{
		{{"05:30", "21:30", 10000}},
		{{"07:00", "10:00", 2000}, {"16:00", "19:00", 2000}},
		{{"05:30", "06:15", 1000}},
		{{"19:00", "19:45", 1000}},
	}
)

// Seed inserts the sample temple with its catalog and a week of
// schedules starting at now, but only when the Temples table is empty.
// It reports whether anything was inserted.  Everything happens in one
// transaction.
func Seed(ctx context.Context, db *sql.DB, now time.Time) (bool, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Temples`).Scan(&count); err != nil {
		return false, fmt.Errorf("count temples: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `INSERT INTO Temples (TempleName, Location, MaxDailyCapacity, FoundingYear,
		Description, OpeningTime, ClosingTime, ContactNumber, EmailAddress, WebsiteURL)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"Siddhivinayak Temple", "Prabhadevi, Mumbai, Maharashtra", 25000, 1801,
		"Shree Siddhivinayak Ganapati Mandir is a Hindu temple dedicated to Lord Shri Ganesh. It is located in Prabhadevi, Mumbai, Maharashtra.",
		"05:30", "21:30", "+91-22-24373626", "info@siddhivinayak.org", "https://www.siddhivinayak.org")
	if err != nil {
		return false, fmt.Errorf("seed temple: %w", err)
	}
	templeID, err := res.LastInsertId()
	if err != nil {
		return false, err
	}

	typeIDs := make([]int64, len(seedDarshanTypes))
	for i, d := range seedDarshanTypes {
		res, err := tx.ExecContext(ctx, `INSERT INTO DarshanTypes (TempleID, DarshanName, Description,
			Duration, MaxCapacity, StandardPrice, IsSpecial) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			templeID, d.name, d.desc, d.duration, d.capacity, d.price, d.special)
		if err != nil {
			return false, fmt.Errorf("seed darshan type %q: %w", d.name, err)
		}
		if typeIDs[i], err = res.LastInsertId(); err != nil {
			return false, err
		}
	}

	donationTypes := []struct {
		name, desc string
		min        model.Money
		order      int
	}{
		{"General Donation", "General donation for temple activities", model.Rupees(101), 1},
		{"Annadanam", "Donation for feeding devotees", model.Rupees(501), 2},
		{"Temple Development", "For temple renovation and development", model.Rupees(1001), 3},
		{"Special Puja", "Donation for special pujas", model.Rupees(1100), 4},
	}
	for _, d := range donationTypes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO DonationTypes (TempleID, TypeName, Description,
			MinimumAmount, IsActive, DisplayOrder) VALUES (?, ?, ?, ?, TRUE, ?)`,
			templeID, d.name, d.desc, d.min, d.order); err != nil {
			return false, fmt.Errorf("seed donation type %q: %w", d.name, err)
		}
	}

	festivals := [][4]string{
		{"Ganesh Chaturthi", "Main festival celebrating Lord Ganesh's birthday", "2025-09-02", "2025-09-12"},
		{"Angarika Chaturthi", "Monthly festival falling on Tuesdays", "2025-01-14", "2025-01-14"},
		{"Maghi Ganesh Jayanti", "Celebration of Lord Ganesh's birth", "2025-02-15", "2025-02-15"},
	}
	for _, f := range festivals {
		if _, err := tx.ExecContext(ctx, `INSERT INTO Festivals (TempleID, FestivalName, Description,
			StartDate, EndDate, SpecialDarshanAvailable) VALUES (?, ?, ?, ?, ?, TRUE)`,
			templeID, f[0], f[1], f[2], f[3]); err != nil {
			return false, fmt.Errorf("seed festival %q: %w", f[0], err)
		}
	}

	pujaTypes := []struct {
		name, desc string
		duration   int
		price      model.Money
	}{
		{"Ganesh Puja", "Basic puja to Lord Ganesh", 30, model.Rupees(501)},
		{"Abhishekam", "Sacred bathing ritual of the deity", 45, model.Rupees(1001)},
		{"Satyanarayan Puja", "Full puja ritual with havan", 60, model.Rupees(1501)},
	}
	for _, p := range pujaTypes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO PujaTypes (TempleID, PujaName, Description,
			Duration, Price, IsActive) VALUES (?, ?, ?, ?, ?, TRUE)`,
			templeID, p.name, p.desc, p.duration, p.price); err != nil {
			return false, fmt.Errorf("seed puja type %q: %w", p.name, err)
		}
	}

	prasadamTypes := []struct {
		name, desc string
		price      model.Money
	}{
		{"Modak", "Traditional sweet offering to Lord Ganesh", model.Rupees(101)},
		{"Laddoo", "Sweet ball-shaped prasadam", model.Rupees(51)},
		{"Prasad Thali", "Complete prasadam thali with multiple items", model.Rupees(201)},
	}
	for _, p := range prasadamTypes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO PrasadamTypes (TempleID, Name, Description,
			Price, IsActive) VALUES (?, ?, ?, ?, TRUE)`,
			templeID, p.name, p.desc, p.price); err != nil {
			return false, fmt.Errorf("seed prasadam type %q: %w", p.name, err)
		}
	}

	for day := 0; day < SeedDays; day++ {
		date := now.AddDate(0, 0, day).Format("2006-01-02")
		for i, windows := range seedWindows {
			for _, w := range windows {
				if _, err := tx.ExecContext(ctx, `INSERT INTO DarshanSchedules (TempleID, DarshanTypeID, ScheduleDate,
					StartTime, EndTime, CurrentCapacity, RemainingSlots) VALUES (?, ?, ?, ?, ?, ?, ?)`,
					templeID, typeIDs[i], date, w.start, w.end, w.capacity, w.capacity); err != nil {
					return false, fmt.Errorf("seed schedule %s %s: %w", date, w.start, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	committed = true
	log.Printf("database: sample data inserted for temple %d", templeID)
	return true, nil
}
