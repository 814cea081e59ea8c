package service

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
)

// DonationRequest records one donation.  Anonymous donations carry no
// visitor; VisitorID is ignored for them.
type DonationRequest struct {
	TempleID             uint64      `json:"temple_id"`
	DonationTypeID       uint64      `json:"donation_type_id"`
	VisitorID            *uint64     `json:"visitor_id,omitempty"`
	Amount               model.Money `json:"amount"`
	PaymentMode          string      `json:"payment_mode"`
	TransactionReference *string     `json:"transaction_reference,omitempty"`
	IsAnonymous          bool        `json:"is_anonymous"`
	DonorName            *string     `json:"donor_name,omitempty"`
	DonorPhone           *string     `json:"donor_phone,omitempty"`
	DonorEmail           *string     `json:"donor_email,omitempty"`
}

// DonationService records donations.
type DonationService struct {
	donations *repository.DonationRepo
	visitors  *repository.VisitorRepo
	pub       queue.Publisher
	clock     Clock
}

// NewDonationService wires a DonationService.
func NewDonationService(donations *repository.DonationRepo, visitors *repository.VisitorRepo,
	pub queue.Publisher, clock Clock) *DonationService {
	return &DonationService{donations: donations, visitors: visitors, pub: pub, clock: clock}
}

func validateDonation(req *DonationRequest) error {
	switch {
	case req.TempleID == 0:
		return repository.Invalid("temple_id", "is required")
	case req.DonationTypeID == 0:
		return repository.Invalid("donation_type_id", "is required")
	case req.Amount <= 0:
		return repository.Invalid("amount", "must be positive")
	case !slices.Contains(model.PaymentModes, req.PaymentMode):
		return repository.Invalid("payment_mode", "must be one of %s", strings.Join(model.PaymentModes, ", "))
	}
	if req.IsAnonymous {
		req.VisitorID = nil
		if req.DonorName == nil || strings.TrimSpace(*req.DonorName) == "" {
			name := model.AnonymousDonorName
			req.DonorName = &name
		}
		return nil
	}
	if req.VisitorID == nil || *req.VisitorID == 0 {
		return repository.Invalid("visitor_id", "is required unless the donation is anonymous")
	}
	return nil
}

// Donate records a donation and assigns its receipt number
// DON-{temple}-{id}-{yymmdd}.  A named donor's LastVisit moves to today.
func (s *DonationService) Donate(ctx context.Context, req DonationRequest) (*model.Donation, error) {
	if err := validateDonation(&req); err != nil {
		return nil, err
	}
	now := s.clock.now()
	var out *model.Donation

	err := withTx(ctx, s.donations.DB(), nil, func(tx *sql.Tx) error {
		dt, err := s.donations.GetTypeTx(ctx, tx, req.DonationTypeID)
		if err != nil {
			return err
		}
		if err := offered("donation_type_id", req.TempleID, dt.TempleID, dt.IsActive); err != nil {
			return err
		}
		if req.Amount < dt.MinimumAmount {
			return repository.Invalid("amount", "must be at least %s for %s", dt.MinimumAmount, dt.Name)
		}
		d := &model.Donation{
			TempleID:             req.TempleID,
			DonationTypeID:       req.DonationTypeID,
			VisitorID:            req.VisitorID,
			Amount:               req.Amount,
			PaymentMode:          req.PaymentMode,
			TransactionReference: req.TransactionReference,
			IsAnonymous:          req.IsAnonymous,
			DonorName:            req.DonorName,
			DonorPhone:           req.DonorPhone,
			DonorEmail:           req.DonorEmail,
			DonationDate:         now,
		}
		if d.VisitorID != nil {
			v, err := s.visitors.GetByIDForUpdateTx(ctx, tx, *d.VisitorID)
			if err != nil {
				return err
			}
			if d.DonorName == nil {
				name := v.FullName()
				d.DonorName = &name
			}
			if d.DonorPhone == nil {
				d.DonorPhone = &v.MobileNumber
			}
			if d.DonorEmail == nil {
				d.DonorEmail = v.EmailAddress
			}
		}
		if err := s.donations.CreateTx(ctx, tx, d); err != nil {
			return err
		}
		d.ReceiptNumber = donationReceipt(req.TempleID, d.ID, now.Format("060102"))
		if err := s.donations.SetReceiptTx(ctx, tx, d.ID, d.ReceiptNumber); err != nil {
			return err
		}
		if d.VisitorID != nil {
			if err := s.visitors.TouchLastVisitTx(ctx, tx, *d.VisitorID, now.Format(dateLayout)); err != nil {
				return err
			}
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := queue.ActivityEvent{Kind: queue.KindDonationRecorded, RecordID: out.ID, TempleID: out.TempleID,
		Reference: out.ReceiptNumber, Amount: out.Amount}
	if out.VisitorID != nil {
		ev.VisitorID = *out.VisitorID
	}
	publish(ctx, s.pub, s.clock, ev)
	return out, nil
}
