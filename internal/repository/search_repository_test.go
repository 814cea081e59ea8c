package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/temple-visitor-services/internal/model"
)

func TestSearchBookingsBuildsFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSearchRepo(db)

	cols := []string{"BookingID", "VisitorName", "MobileNumber", "DarshanName", "ScheduleDate", "StartTime",
		"NumberOfPeople", "TotalAmount", "BookingStatus", "BookingDateTime"}
	mock.ExpectQuery(`WHERE \(v.FirstName LIKE \? OR v.LastName LIKE \? OR v.MobileNumber LIKE \?\) AND ds.ScheduleDate = \?`).
		WithArgs("%Asha%", "%Asha%", "%Asha%", "2026-10-16", 500).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, "Asha Patil", "9876543210", "VIP Darshan", "2026-10-16", "07:00", 4, "800.00", "Confirmed", time.Now()))

	rows, err := repo.SearchBookings(context.Background(), model.SearchFilter{Query: "Asha", Date: "2026-10-16"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Rupees(800), rows[0].TotalAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchDonationsWithoutFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSearchRepo(db)

	cols := []string{"DonationID", "DonorName", "DonorPhone", "TypeName", "Amount", "PaymentMode", "ReceiptNumber", "DonationDate"}
	mock.ExpectQuery(`JOIN DonationTypes dt ON d.DonationTypeID = dt.DonationTypeID\s+ORDER BY d.DonationDate DESC`).
		WithArgs(500).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Anonymous Donor", "", "Annadanam", "501.00", "UPI", "DON-1-1-261015", time.Now()))

	rows, err := repo.SearchDonations(context.Background(), model.SearchFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Anonymous Donor", rows[0].DonorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOverviewMergesRecentActivity(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSearchRepo(db)

	for i, table := range overviewTables {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM " + table).
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(i + 1))
	}
	base := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM DarshanBookings ORDER BY BookingDateTime DESC LIMIT 3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amt", "at"}).
			AddRow(9, "800.00", base.Add(5*time.Minute)).
			AddRow(8, "0.00", base.Add(-time.Hour)).
			AddRow(7, "200.00", base.Add(-2*time.Hour)))
	mock.ExpectQuery("FROM Donations ORDER BY DonationDate DESC LIMIT 3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amt", "at"}).
			AddRow(4, "501.00", base.Add(10*time.Minute)).
			AddRow(3, "101.00", base).
			AddRow(2, "1001.00", base.Add(-3*time.Hour)))

	ov, err := repo.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ov.Counts["Visitors"])
	assert.Equal(t, 5, ov.Counts["PrasadamOrders"])
	require.Len(t, ov.RecentActivity, 5)
	assert.Equal(t, "donation", ov.RecentActivity[0].Kind)
	assert.Equal(t, "Amount: INR 501.00", ov.RecentActivity[0].Description)
	assert.Equal(t, "Booking ID: 9", ov.RecentActivity[1].Description)
	assert.Equal(t, uint64(7), ov.RecentActivity[4].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDashboardAggregates(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDashboardRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\), COALESCE\\(SUM\\(b.NumberOfPeople\\), 0\\)").
		WithArgs(uint64(1), "2026-10-15").
		WillReturnRows(sqlmock.NewRows([]string{"c", "p", "a"}).AddRow(3, "9", "1200.00"))
	mock.ExpectQuery("FROM Donations\\s+WHERE TempleID = \\? AND DATE\\(DonationDate\\) = \\?").
		WithArgs(uint64(1), "2026-10-15").
		WillReturnRows(sqlmock.NewRows([]string{"c", "a"}).AddRow(2, "602.00"))
	mock.ExpectQuery("LIMIT 10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "f", "l", "m", "lv"}).AddRow(5, "Asha", "Patil", "9876543210", "2026-10-15"))
	mock.ExpectQuery("GROUP BY dt.DarshanName").
		WillReturnRows(sqlmock.NewRows([]string{"n", "c"}).AddRow("VIP Darshan", 3))
	mock.ExpectQuery("GROUP BY dt.TypeName").
		WillReturnRows(sqlmock.NewRows([]string{"n", "c", "a"}).AddRow("Annadanam", 1, "501.00"))

	d, err := repo.Get(context.Background(), 1, "2026-10-15")
	require.NoError(t, err)
	assert.Equal(t, 3, d.TodayBookings)
	assert.Equal(t, 9, d.TodayVisitors)
	assert.Equal(t, model.Rupees(1200), d.TodayBookingAmt)
	assert.Equal(t, model.Rupees(602), d.TodayDonatedAmt)
	require.Len(t, d.RecentVisitors, 1)
	assert.Equal(t, "VIP Darshan", d.DarshanStats[0].DarshanName)
	assert.Equal(t, model.Rupees(501), d.DonationStats[0].TotalAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
