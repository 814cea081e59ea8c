package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

// AuthConfig holds the token and hashing settings of admin login.
type AuthConfig struct {
	JWTSecret    string
	AccessTTLMin int
	BcryptCost   int
}

// AdminService backs the admin dashboard: login, statistics, searches
// and deletes.
type AdminService struct {
	admins    *repository.AdminRepo
	dashboard *repository.DashboardRepo
	search    *repository.SearchRepo
	visitors  *repository.VisitorRepo
	bookings  *repository.BookingRepo
	darshan   *repository.DarshanRepo
	donations *repository.DonationRepo
	pujas     *repository.PujaRepo
	prasadam  *repository.PrasadamRepo
	booking   *BookingService
	auth      AuthConfig
	pub       queue.Publisher
	clock     Clock
}

// AdminDeps groups the repositories the admin service reads and deletes
// from.
type AdminDeps struct {
	Admins    *repository.AdminRepo
	Dashboard *repository.DashboardRepo
	Search    *repository.SearchRepo
	Visitors  *repository.VisitorRepo
	Bookings  *repository.BookingRepo
	Darshan   *repository.DarshanRepo
	Donations *repository.DonationRepo
	Pujas     *repository.PujaRepo
	Prasadam  *repository.PrasadamRepo
}

// NewAdminService wires an AdminService.  Booking cancellation and
// deletion are delegated to booking.
func NewAdminService(d AdminDeps, booking *BookingService, auth AuthConfig, pub queue.Publisher, clock Clock) *AdminService {
	return &AdminService{
		admins: d.Admins, dashboard: d.Dashboard, search: d.Search, visitors: d.Visitors,
		bookings: d.Bookings, darshan: d.Darshan, donations: d.Donations, pujas: d.Pujas,
		prasadam: d.Prasadam, booking: booking, auth: auth, pub: pub, clock: clock,
	}
}

// EnsureAdmin creates the admin account or resets its password.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return repository.Invalid("username", "is required")
	}
	hash, err := utils.HashPassword(password, s.auth.BcryptCost)
	if err != nil {
		return repository.Invalid("password", "%v", err)
	}
	return s.admins.Upsert(ctx, username, hash)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
	Username    string `json:"username"`
}

// Login checks the credentials and issues an access token.  Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *AdminService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	a, err := s.admins.GetByUsername(ctx, username)
	if isNotFound(err) {
		return nil, repository.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		return nil, repository.ErrUnauthorized
	}
	tok, err := utils.NewAccessToken(s.auth.JWTSecret, a.ID, model.RoleAdmin, s.auth.AccessTTLMin)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: tok.Token, ExpiresAt: tok.Exp.Format(time.RFC3339), Username: a.Username}, nil
}

// Dashboard returns today's statistics for a temple.
func (s *AdminService) Dashboard(ctx context.Context, templeID uint64) (*model.Dashboard, error) {
	return s.dashboard.Get(ctx, templeID, s.clock.today())
}

// Overview returns record counts and the latest activity.
func (s *AdminService) Overview(ctx context.Context) (*model.Overview, error) {
	return s.search.Overview(ctx)
}

func (s *AdminService) SearchVisitors(ctx context.Context, f model.SearchFilter) ([]model.Visitor, error) {
	return s.visitors.Search(ctx, f)
}

func (s *AdminService) SearchBookings(ctx context.Context, f model.SearchFilter) ([]model.BookingSearchRow, error) {
	return s.search.SearchBookings(ctx, f)
}

func (s *AdminService) SearchDonations(ctx context.Context, f model.SearchFilter) ([]model.DonationSearchRow, error) {
	return s.search.SearchDonations(ctx, f)
}

func (s *AdminService) SearchPujas(ctx context.Context, f model.SearchFilter) ([]model.PujaSearchRow, error) {
	return s.search.SearchPujas(ctx, f)
}

func (s *AdminService) SearchOrders(ctx context.Context, f model.SearchFilter) ([]model.OrderSearchRow, error) {
	return s.search.SearchOrders(ctx, f)
}

func (s *AdminService) DeleteDonation(ctx context.Context, id uint64) error {
	return s.donations.Delete(ctx, id)
}

func (s *AdminService) DeletePuja(ctx context.Context, id uint64) error {
	return s.pujas.Delete(ctx, id)
}

func (s *AdminService) DeleteOrder(ctx context.Context, id uint64) error {
	return s.prasadam.Delete(ctx, id)
}

// DeleteBooking removes a booking and restores its slots.
func (s *AdminService) DeleteBooking(ctx context.Context, id uint64) (int, error) {
	return s.booking.DeleteBooking(ctx, id)
}

// CancelBooking cancels a booking and restores its slots.
func (s *AdminService) CancelBooking(ctx context.Context, id uint64) (*model.DarshanBooking, error) {
	return s.booking.CancelBooking(ctx, id)
}

// DeleteVisitor removes a visitor.  Without cascade a visitor that is
// still referenced is a ConflictError listing the referencing tables.
// With cascade the dependent rows are removed first and the slots held
// by the visitor's non-cancelled bookings go back to their schedules.
func (s *AdminService) DeleteVisitor(ctx context.Context, id uint64, cascade bool) (*model.DeleteVisitorResult, error) {
	res := &model.DeleteVisitorResult{VisitorID: id}
	err := withTx(ctx, s.visitors.DB(), bookingTxOptions, func(tx *sql.Tx) error {
		if cascade {
			// schedules first, then the visitor, as BookDarshan does
			if _, err := s.darshan.LockVisitorSchedulesTx(ctx, tx, id); err != nil {
				return err
			}
		}
		if _, err := s.visitors.GetByIDForUpdateTx(ctx, tx, id); err != nil {
			return err
		}
		if !cascade {
			deps, err := s.visitors.DependentsTx(ctx, tx, id)
			if err != nil {
				return err
			}
			if len(deps) > 0 {
				names := make([]string, 0, len(deps))
				for t := range deps {
					names = append(names, t)
				}
				sort.Strings(names)
				return &repository.ConflictError{Resource: "visitor", Msg: "has dependent records", Dependents: names}
			}
		} else {
			active, err := s.bookings.ActiveByVisitorTx(ctx, tx, id)
			if err != nil {
				return err
			}
			for _, b := range active {
				if err := s.darshan.RestoreSlotsTx(ctx, tx, b.ScheduleID, b.NumberOfPeople); err != nil {
					return err
				}
				res.SlotsRestored += int64(b.NumberOfPeople)
			}
			n, err := s.visitors.DeleteDependentsTx(ctx, tx, id)
			if err != nil {
				return err
			}
			res.BookingsDeleted = n["DarshanBookings"]
			res.DonationsDeleted = n["Donations"]
			res.PujasDeleted = n["VirtualPujas"]
			res.OrdersDeleted = n["PrasadamOrders"]
		}
		return s.visitors.DeleteTx(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.pub, s.clock, queue.ActivityEvent{Kind: queue.KindVisitorDeleted, RecordID: id, VisitorID: id,
		People: int(res.SlotsRestored)})
	return res, nil
}
