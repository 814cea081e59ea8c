package service

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
)

// PujaBookingWindowDays is how far ahead a virtual puja may be booked.
const PujaBookingWindowDays = 30

// PujaSlots are the hours a virtual puja may start at: the morning
// window 06:00-11:00 and the evening window 16:00-19:00.
var PujaSlots = []string{
	"06:00", "07:00", "08:00", "09:00", "10:00", "11:00",
	"16:00", "17:00", "18:00", "19:00",
}

// PujaRequest books a virtual puja.
type PujaRequest struct {
	TempleID       uint64  `json:"temple_id"`
	VisitorID      uint64  `json:"visitor_id"`
	PujaTypeID     uint64  `json:"puja_type_id"`
	PujaDate       string  `json:"puja_date"`
	PujaTime       string  `json:"puja_time"`
	DevoteeMessage *string `json:"devotee_message,omitempty"`
}

// PujaService books virtual pujas.
type PujaService struct {
	pujas    *repository.PujaRepo
	visitors *repository.VisitorRepo
	pub      queue.Publisher
	clock    Clock
}

// NewPujaService wires a PujaService.
func NewPujaService(pujas *repository.PujaRepo, visitors *repository.VisitorRepo, pub queue.Publisher, clock Clock) *PujaService {
	return &PujaService{pujas: pujas, visitors: visitors, pub: pub, clock: clock}
}

// validatePuja checks ids, the date window (tomorrow up to
// PujaBookingWindowDays ahead, inclusive) and the slot.
func validatePuja(req PujaRequest, now time.Time) error {
	switch {
	case req.TempleID == 0:
		return repository.Invalid("temple_id", "is required")
	case req.VisitorID == 0:
		return repository.Invalid("visitor_id", "is required")
	case req.PujaTypeID == 0:
		return repository.Invalid("puja_type_id", "is required")
	}
	day, err := time.ParseInLocation(dateLayout, req.PujaDate, now.Location())
	if err != nil {
		return repository.Invalid("puja_date", "must be YYYY-MM-DD")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today.AddDate(0, 0, 1)) || day.After(today.AddDate(0, 0, PujaBookingWindowDays)) {
		return repository.Invalid("puja_date", "must be between tomorrow and %d days ahead", PujaBookingWindowDays)
	}
	if !slices.Contains(PujaSlots, req.PujaTime) {
		return repository.Invalid("puja_time", "must be on the hour between 06:00-11:00 or 16:00-19:00")
	}
	return nil
}

// Book schedules a virtual puja at the type's price.
func (s *PujaService) Book(ctx context.Context, req PujaRequest) (*model.VirtualPuja, error) {
	now := s.clock.now()
	if err := validatePuja(req, now); err != nil {
		return nil, err
	}
	receipt, err := newToken(pujaPrefix)
	if err != nil {
		return nil, err
	}
	var out *model.VirtualPuja

	err = withTx(ctx, s.pujas.DB(), nil, func(tx *sql.Tx) error {
		pt, err := s.pujas.GetTypeTx(ctx, tx, req.PujaTypeID)
		if err != nil {
			return err
		}
		if err := offered("puja_type_id", req.TempleID, pt.TempleID, pt.IsActive); err != nil {
			return err
		}
		if _, err := s.visitors.GetByIDForUpdateTx(ctx, tx, req.VisitorID); err != nil {
			return err
		}
		p := &model.VirtualPuja{
			TempleID:       req.TempleID,
			VisitorID:      req.VisitorID,
			PujaTypeID:     req.PujaTypeID,
			PujaDate:       req.PujaDate,
			PujaTime:       req.PujaTime,
			TotalAmount:    pt.Price,
			PujaStatus:     model.PujaScheduled,
			ReceiptNumber:  receipt,
			DevoteeMessage: req.DevoteeMessage,
		}
		if err := s.pujas.CreateTx(ctx, tx, p); err != nil {
			return err
		}
		if err := s.visitors.TouchLastVisitTx(ctx, tx, req.VisitorID, now.Format(dateLayout)); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.pub, s.clock, queue.ActivityEvent{Kind: queue.KindPujaBooked, RecordID: out.ID,
		TempleID: out.TempleID, VisitorID: out.VisitorID, Reference: out.ReceiptNumber, Amount: out.TotalAmount})
	return out, nil
}
