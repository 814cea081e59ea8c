package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/temple-visitor-services/internal/repository"
)

func (f *fixture) catalogService() *CatalogService {
	return NewCatalogService(repository.NewTempleRepo(f.db), f.darshan, f.donations, f.pujas, f.prasadam, fixedClock())
}

func TestSchedulesValidatesDateAndDefaultsToToday(t *testing.T) {
	f := newFixture(t)
	svc := f.catalogService()

	_, err := svc.Schedules(context.Background(), 1, "16/10/2026")
	assert.ErrorIs(t, err, repository.ErrValidation)

	f.mock.ExpectQuery(`ds.ScheduleDate >= \?`).WithArgs(1, "2026-10-15").WillReturnRows(sqlmock.NewRows(scheduleCols))
	got, err := svc.Schedules(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCancelledScheduleIsHidden(t *testing.T) {
	f := newFixture(t)
	svc := f.catalogService()

	f.mock.ExpectQuery(`WHERE ds.ScheduleID = \?`).WithArgs(8).
		WillReturnRows(sqlmock.NewRows(scheduleCols).
			AddRow(8, 1, 2, nil, "2026-10-16", "07:00", "10:00", 2000, 2000, true, "VIP Darshan", "200.00", 15))

	_, err := svc.Schedule(context.Background(), 8)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
