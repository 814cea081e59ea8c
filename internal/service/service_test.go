package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
)

var (
	scheduleCols = []string{"ScheduleID", "TempleID", "DarshanTypeID", "FestivalID", "ScheduleDate", "StartTime", "EndTime",
		"CurrentCapacity", "RemainingSlots", "IsCancelled", "DarshanName", "StandardPrice", "Duration"}
	visitorCols = []string{"VisitorID", "FirstName", "LastName", "MobileNumber", "EmailAddress", "RegistrationDate",
		"Address", "City", "State", "PINCode", "LastVisit"}
	bookingCols = []string{"BookingID", "ScheduleID", "VisitorID", "BookingDateTime", "NumberOfPeople", "TotalAmount",
		"PaymentStatus", "PaymentReference", "BookingStatus", "SpecialRequirements"}
)

// fixedClock pins "now" to 2026-10-15 09:30 local time.
func fixedClock() Clock {
	t := time.Date(2026, 10, 15, 9, 30, 0, 0, time.Local)
	return func() time.Time { return t }
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []string{}
	for _, ev := range p.events {
		out = append(out, ev.Kind)
	}
	return out
}

type fixture struct {
	db   *sql.DB
	mock sqlmock.Sqlmock
	pub  *recordingPublisher

	darshan   *repository.DarshanRepo
	bookings  *repository.BookingRepo
	visitors  *repository.VisitorRepo
	donations *repository.DonationRepo
	pujas     *repository.PujaRepo
	prasadam  *repository.PrasadamRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &fixture{
		db: db, mock: mock, pub: &recordingPublisher{},
		darshan:   repository.NewDarshanRepo(db),
		bookings:  repository.NewBookingRepo(db),
		visitors:  repository.NewVisitorRepo(db),
		donations: repository.NewDonationRepo(db),
		pujas:     repository.NewPujaRepo(db),
		prasadam:  repository.NewPrasadamRepo(db),
	}
}

func (f *fixture) bookingService() *BookingService {
	return NewBookingService(f.darshan, f.bookings, f.visitors, f.pub, fixedClock())
}

func (f *fixture) expectVisitorLock(id uint64) {
	f.mock.ExpectQuery(`FROM Visitors WHERE VisitorID = \? FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(visitorCols).
			AddRow(id, "Ravi", "Kumar", "9876543210", nil, time.Date(2026, 1, 2, 10, 0, 0, 0, time.Local), nil, "Tirupati", nil, nil, nil))
}

func (f *fixture) expectTouch(id uint64) {
	f.mock.ExpectExec(`UPDATE Visitors SET LastVisit = \? WHERE VisitorID = \?`).
		WithArgs("2026-10-15", id).
		WillReturnResult(sqlmock.NewResult(0, 1))
}
