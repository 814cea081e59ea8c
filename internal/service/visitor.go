package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
)

// mobilePattern accepts 10 to 15 digits with an optional leading +.
var mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// NormalizeMobile strips spaces and dashes from a phone number.
func NormalizeMobile(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
}

// VisitorService resolves visitors by phone and registers new ones.
type VisitorService struct {
	visitors  *repository.VisitorRepo
	bookings  *repository.BookingRepo
	donations *repository.DonationRepo
	pujas     *repository.PujaRepo
	prasadam  *repository.PrasadamRepo
	pub       queue.Publisher
	clock     Clock
}

// NewVisitorService wires a VisitorService.
func NewVisitorService(visitors *repository.VisitorRepo, bookings *repository.BookingRepo,
	donations *repository.DonationRepo, pujas *repository.PujaRepo, prasadam *repository.PrasadamRepo,
	pub queue.Publisher, clock Clock) *VisitorService {
	return &VisitorService{visitors: visitors, bookings: bookings, donations: donations,
		pujas: pujas, prasadam: prasadam, pub: pub, clock: clock}
}

// FindByPhone returns the visitor registered with phone.  Phone numbers
// are not unique; the latest registration wins.
func (s *VisitorService) FindByPhone(ctx context.Context, phone string) (*model.Visitor, error) {
	phone = NormalizeMobile(phone)
	if !mobilePattern.MatchString(phone) {
		return nil, repository.Invalid("mobile_number", "must be 10 to 15 digits")
	}
	return s.visitors.FindByPhone(ctx, phone)
}

func validateVisitor(in *model.VisitorInput) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.MobileNumber = NormalizeMobile(in.MobileNumber)
	switch {
	case in.FirstName == "":
		return repository.Invalid("first_name", "is required")
	case in.LastName == "":
		return repository.Invalid("last_name", "is required")
	case in.MobileNumber == "":
		return repository.Invalid("mobile_number", "is required")
	case !mobilePattern.MatchString(in.MobileNumber):
		return repository.Invalid("mobile_number", "must be 10 to 15 digits")
	}
	if in.EmailAddress != nil && !strings.Contains(*in.EmailAddress, "@") {
		return repository.Invalid("email_address", "is not an email address")
	}
	return nil
}

// Register creates a visitor with LastVisit set to today.
func (s *VisitorService) Register(ctx context.Context, in model.VisitorInput) (uint64, error) {
	if err := validateVisitor(&in); err != nil {
		return 0, err
	}
	id, err := s.visitors.Create(ctx, in, s.clock.today())
	if err != nil {
		return 0, err
	}
	publish(ctx, s.pub, s.clock, queue.ActivityEvent{Kind: queue.KindVisitorRegistered, RecordID: id, VisitorID: id})
	return id, nil
}

// Resolve returns the visitor registered with in.MobileNumber, creating
// one from in when none exists.  created reports which happened.
func (s *VisitorService) Resolve(ctx context.Context, in model.VisitorInput) (v *model.Visitor, created bool, err error) {
	if err := validateVisitor(&in); err != nil {
		return nil, false, err
	}
	v, err = s.visitors.FindByPhone(ctx, in.MobileNumber)
	if err == nil {
		return v, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}
	id, err := s.Register(ctx, in)
	if err != nil {
		return nil, false, err
	}
	v, err = s.visitors.GetByID(ctx, id)
	return v, err == nil, err
}

// Get returns one visitor.
func (s *VisitorService) Get(ctx context.Context, id uint64) (*model.Visitor, error) {
	return s.visitors.GetByID(ctx, id)
}

// History gathers everything a visitor has booked, donated and ordered.
// phone must be the visitor's registered mobile number.
func (s *VisitorService) History(ctx context.Context, id uint64, phone string) (*model.VisitorHistory, error) {
	phone, err := requirePhone(phone)
	if err != nil {
		return nil, err
	}
	v, err := s.visitors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := matchPhone(v.MobileNumber, phone, "visitor", id); err != nil {
		return nil, err
	}
	h := &model.VisitorHistory{Visitor: *v}
	if h.Bookings, err = s.bookings.ListByVisitor(ctx, id); err != nil {
		return nil, err
	}
	if h.Donations, err = s.donations.ListByVisitor(ctx, id); err != nil {
		return nil, err
	}
	if h.Pujas, err = s.pujas.ListByVisitor(ctx, id); err != nil {
		return nil, err
	}
	if h.Orders, err = s.prasadam.ListByVisitor(ctx, id); err != nil {
		return nil, err
	}
	return h, nil
}
