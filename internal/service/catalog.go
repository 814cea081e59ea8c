package service

import (
	"context"
	"time"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
)

// CatalogService serves the read-only reference data: temples, their
// darshan types and schedules, festivals and the offering catalogs.
type CatalogService struct {
	temples   *repository.TempleRepo
	darshan   *repository.DarshanRepo
	donations *repository.DonationRepo
	pujas     *repository.PujaRepo
	prasadam  *repository.PrasadamRepo
	clock     Clock
}

// NewCatalogService wires a CatalogService.
func NewCatalogService(temples *repository.TempleRepo, darshan *repository.DarshanRepo,
	donations *repository.DonationRepo, pujas *repository.PujaRepo, prasadam *repository.PrasadamRepo,
	clock Clock) *CatalogService {
	return &CatalogService{temples: temples, darshan: darshan, donations: donations,
		pujas: pujas, prasadam: prasadam, clock: clock}
}

func (s *CatalogService) Temples(ctx context.Context) ([]model.Temple, error) {
	return s.temples.ListActive(ctx)
}

func (s *CatalogService) Temple(ctx context.Context, id uint64) (*model.Temple, error) {
	return s.temples.Get(ctx, id)
}

func (s *CatalogService) DarshanTypes(ctx context.Context, templeID uint64) ([]model.DarshanType, error) {
	return s.darshan.ListTypes(ctx, templeID)
}

// Schedules lists the bookable schedules of a temple.  An empty date
// means every day from today on.
func (s *CatalogService) Schedules(ctx context.Context, templeID uint64, date string) ([]model.Schedule, error) {
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, repository.Invalid("date", "must be YYYY-MM-DD")
		}
	}
	return s.darshan.ListSchedules(ctx, templeID, date, s.clock.today())
}

// Schedule returns one schedule.  Cancelled schedules are reported as
// not found, the same as the booking transaction does.
func (s *CatalogService) Schedule(ctx context.Context, id uint64) (*model.Schedule, error) {
	sc, err := s.darshan.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc.IsCancelled {
		return nil, &repository.NotFoundError{Resource: "schedule", ID: id}
	}
	return sc, nil
}

func (s *CatalogService) Festivals(ctx context.Context, templeID uint64) ([]model.Festival, error) {
	return s.temples.UpcomingFestivals(ctx, templeID, s.clock.today())
}

func (s *CatalogService) DonationTypes(ctx context.Context, templeID uint64) ([]model.DonationType, error) {
	return s.donations.ListTypes(ctx, templeID)
}

func (s *CatalogService) PujaTypes(ctx context.Context, templeID uint64) ([]model.PujaType, error) {
	return s.pujas.ListTypes(ctx, templeID)
}

func (s *CatalogService) PrasadamTypes(ctx context.Context, templeID uint64) ([]model.PrasadamType, error) {
	return s.prasadam.ListTypes(ctx, templeID)
}
