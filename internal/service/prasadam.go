package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
)

// PrasadamRequest orders prasadam for shipping.
type PrasadamRequest struct {
	TempleID        uint64 `json:"temple_id"`
	VisitorID       uint64 `json:"visitor_id"`
	PrasadamTypeID  uint64 `json:"prasadam_type_id"`
	Quantity        int    `json:"quantity"`
	ShippingAddress string `json:"shipping_address"`
}

// PrasadamService takes prasadam orders.
type PrasadamService struct {
	prasadam *repository.PrasadamRepo
	visitors *repository.VisitorRepo
	pub      queue.Publisher
	clock    Clock
}

// NewPrasadamService wires a PrasadamService.
func NewPrasadamService(prasadam *repository.PrasadamRepo, visitors *repository.VisitorRepo, pub queue.Publisher, clock Clock) *PrasadamService {
	return &PrasadamService{prasadam: prasadam, visitors: visitors, pub: pub, clock: clock}
}

func validatePrasadam(req *PrasadamRequest) error {
	req.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	switch {
	case req.TempleID == 0:
		return repository.Invalid("temple_id", "is required")
	case req.VisitorID == 0:
		return repository.Invalid("visitor_id", "is required")
	case req.PrasadamTypeID == 0:
		return repository.Invalid("prasadam_type_id", "is required")
	case req.Quantity < 1 || req.Quantity > model.MaxPrasadamQuantity:
		return repository.Invalid("quantity", "must be between 1 and %d", model.MaxPrasadamQuantity)
	case req.ShippingAddress == "":
		return repository.Invalid("shipping_address", "is required")
	}
	return nil
}

// Order places a prasadam order.  The total is price times quantity plus
// a flat shipping charge and delivery is estimated a week out.
func (s *PrasadamService) Order(ctx context.Context, req PrasadamRequest) (*model.PrasadamOrder, error) {
	if err := validatePrasadam(&req); err != nil {
		return nil, err
	}
	now := s.clock.now()
	tracking, err := newToken(trackingPrefix)
	if err != nil {
		return nil, err
	}
	var out *model.PrasadamOrder

	err = withTx(ctx, s.prasadam.DB(), nil, func(tx *sql.Tx) error {
		pt, err := s.prasadam.GetTypeTx(ctx, tx, req.PrasadamTypeID)
		if err != nil {
			return err
		}
		if err := offered("prasadam_type_id", req.TempleID, pt.TempleID, pt.IsActive); err != nil {
			return err
		}
		if _, err := s.visitors.GetByIDForUpdateTx(ctx, tx, req.VisitorID); err != nil {
			return err
		}
		o := &model.PrasadamOrder{
			VisitorID:         req.VisitorID,
			TempleID:          req.TempleID,
			PrasadamTypeID:    req.PrasadamTypeID,
			OrderDate:         now,
			Quantity:          req.Quantity,
			TotalAmount:       pt.Price.Mul(req.Quantity).Add(model.PrasadamShipping),
			ShippingAddress:   req.ShippingAddress,
			OrderStatus:       model.OrderProcessing,
			EstimatedDelivery: now.AddDate(0, 0, model.EstimatedDeliveryDays).Format(dateLayout),
		}
		if err := s.prasadam.CreateTx(ctx, tx, o); err != nil {
			return err
		}
		if err := s.prasadam.SetTrackingTx(ctx, tx, o.ID, tracking); err != nil {
			return err
		}
		o.TrackingNumber = tracking
		if err := s.visitors.TouchLastVisitTx(ctx, tx, req.VisitorID, now.Format(dateLayout)); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.pub, s.clock, queue.ActivityEvent{Kind: queue.KindPrasadamOrdered, RecordID: out.ID,
		TempleID: out.TempleID, VisitorID: out.VisitorID, Reference: out.TrackingNumber, Amount: out.TotalAmount})
	return out, nil
}
