package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

const testSecret = "test-secret"

func (f *fixture) adminService() *AdminService {
	deps := AdminDeps{
		Admins:    repository.NewAdminRepo(f.db),
		Dashboard: repository.NewDashboardRepo(f.db),
		Search:    repository.NewSearchRepo(f.db),
		Visitors:  f.visitors,
		Bookings:  f.bookings,
		Darshan:   f.darshan,
		Donations: f.donations,
		Pujas:     f.pujas,
		Prasadam:  f.prasadam,
	}
	auth := AuthConfig{JWTSecret: testSecret, AccessTTLMin: 15, BcryptCost: bcrypt.MinCost}
	return NewAdminService(deps, f.bookingService(), auth, f.pub, fixedClock())
}

func TestLoginIssuesAdminToken(t *testing.T) {
	f := newFixture(t)
	svc := f.adminService()
	hash, err := utils.HashPassword("temple-admin-pw", bcrypt.MinCost)
	require.NoError(t, err)

	f.mock.ExpectQuery(`FROM Admins WHERE Username = \?`).WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"AdminID", "Username", "PasswordHash", "CreatedAt"}).
			AddRow(1, "admin", hash, time.Now()))

	res, err := svc.Login(context.Background(), "admin", "temple-admin-pw")
	require.NoError(t, err)
	claims, err := utils.ParseAccessToken(testSecret, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestLoginFailuresAreUnauthorized(t *testing.T) {
	f := newFixture(t)
	svc := f.adminService()
	hash, err := utils.HashPassword("temple-admin-pw", bcrypt.MinCost)
	require.NoError(t, err)

	f.mock.ExpectQuery(`FROM Admins`).WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"AdminID", "Username", "PasswordHash", "CreatedAt"}).
			AddRow(1, "admin", hash, time.Now()))
	_, err = svc.Login(context.Background(), "admin", "wrong-password")
	assert.ErrorIs(t, err, repository.ErrUnauthorized)

	f.mock.ExpectQuery(`FROM Admins`).WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"AdminID", "Username", "PasswordHash", "CreatedAt"}))
	_, err = svc.Login(context.Background(), "ghost", "whatever-pw")
	assert.ErrorIs(t, err, repository.ErrUnauthorized)

	f.mock.ExpectQuery(`FROM Admins`).WithArgs("admin").WillReturnError(errors.New("down"))
	_, err = svc.Login(context.Background(), "admin", "temple-admin-pw")
	assert.ErrorIs(t, err, repository.ErrStorage)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestEnsureAdminRejectsShortPassword(t *testing.T) {
	f := newFixture(t)
	err := f.adminService().EnsureAdmin(context.Background(), "admin", "short")
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestEnsureAdminUpserts(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(`INSERT INTO Admins \(Username, PasswordHash\) VALUES \(\?, \?\)\s+ON DUPLICATE KEY UPDATE`).
		WithArgs("admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, f.adminService().EnsureAdmin(context.Background(), "admin", "long-enough-pw"))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func (f *fixture) expectDependentCounts(counts ...int) {
	for i, table := range []string{"DarshanBookings", "Donations", "VirtualPujas", "PrasadamOrders"} {
		f.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM ` + table + ` WHERE VisitorID = \?`).WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(counts[i]))
	}
}

func TestDeleteReferencedVisitorIsConflict(t *testing.T) {
	f := newFixture(t)
	svc := f.adminService()

	f.mock.ExpectBegin()
	f.expectVisitorLock(3)
	f.expectDependentCounts(2, 0, 1, 0)
	f.mock.ExpectRollback()

	_, err := svc.DeleteVisitor(context.Background(), 3, false)
	var ce *repository.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"DarshanBookings", "VirtualPujas"}, ce.Dependents)
	assert.NoError(t, f.mock.ExpectationsWereMet())
	assert.Empty(t, f.pub.events)
}

func TestDeleteUnreferencedVisitor(t *testing.T) {
	f := newFixture(t)
	svc := f.adminService()

	f.mock.ExpectBegin()
	f.expectVisitorLock(3)
	f.expectDependentCounts(0, 0, 0, 0)
	f.mock.ExpectExec(`DELETE FROM Visitors WHERE VisitorID = \?`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	res, err := svc.DeleteVisitor(context.Background(), 3, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.VisitorID)
	assert.Zero(t, res.SlotsRestored)
	assert.NoError(t, f.mock.ExpectationsWereMet())
	assert.Equal(t, []string{queue.KindVisitorDeleted}, f.pub.kinds())
}

func (f *fixture) expectScheduleLocksFor(visitorID uint64, scheduleIDs ...uint64) {
	rows := sqlmock.NewRows([]string{"ScheduleID"})
	for _, id := range scheduleIDs {
		rows.AddRow(id)
	}
	f.mock.ExpectQuery(`SELECT ds.ScheduleID FROM DarshanSchedules ds .* ORDER BY ds.ScheduleID FOR UPDATE OF ds`).
		WithArgs(visitorID, model.BookingCancelled).
		WillReturnRows(rows)
}

func TestCascadeDeleteVisitorRestoresSlots(t *testing.T) {
	f := newFixture(t)
	svc := f.adminService()

	f.mock.ExpectBegin()
	f.expectScheduleLocksFor(3, 7, 8)
	f.expectVisitorLock(3)
	f.mock.ExpectQuery(`SELECT BookingID, ScheduleID, NumberOfPeople FROM DarshanBookings\s+WHERE VisitorID = \? AND BookingStatus <> \? FOR UPDATE`).
		WithArgs(3, model.BookingCancelled).
		WillReturnRows(sqlmock.NewRows([]string{"BookingID", "ScheduleID", "NumberOfPeople"}).
			AddRow(41, 7, 4).
			AddRow(42, 8, 2))
	f.mock.ExpectExec(`LEAST\(CurrentCapacity`).WithArgs(4, 7).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`LEAST\(CurrentCapacity`).WithArgs(2, 8).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`DELETE FROM DarshanBookings WHERE VisitorID = \?`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 3))
	f.mock.ExpectExec(`DELETE FROM Donations WHERE VisitorID = \?`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`DELETE FROM VirtualPujas WHERE VisitorID = \?`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectExec(`DELETE FROM PrasadamOrders WHERE VisitorID = \?`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 2))
	f.mock.ExpectExec(`DELETE FROM Visitors WHERE VisitorID = \?`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	res, err := svc.DeleteVisitor(context.Background(), 3, true)
	require.NoError(t, err)
	assert.Equal(t, model.DeleteVisitorResult{
		VisitorID: 3, BookingsDeleted: 3, DonationsDeleted: 1, OrdersDeleted: 2, SlotsRestored: 6,
	}, *res)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCascadeDeleteRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	svc := f.adminService()

	f.mock.ExpectBegin()
	f.expectScheduleLocksFor(3, 7)
	f.expectVisitorLock(3)
	f.mock.ExpectQuery(`FROM DarshanBookings\s+WHERE VisitorID = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"BookingID", "ScheduleID", "NumberOfPeople"}).AddRow(41, 7, 4))
	f.mock.ExpectExec(`LEAST\(CurrentCapacity`).WillReturnError(errors.New("lock wait timeout"))
	f.mock.ExpectRollback()

	_, err := svc.DeleteVisitor(context.Background(), 3, true)
	assert.ErrorIs(t, err, repository.ErrStorage)
	assert.NoError(t, f.mock.ExpectationsWereMet())
	assert.Empty(t, f.pub.events)
}
