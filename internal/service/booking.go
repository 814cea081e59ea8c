package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
)

// BookDarshanRequest is the input of BookDarshan.  The caller resolves
// the visitor (by phone or registration) beforehand.
type BookDarshanRequest struct {
	ScheduleID          uint64  `json:"schedule_id"`
	VisitorID           uint64  `json:"visitor_id"`
	NumberOfPeople      int     `json:"number_of_people"`
	SpecialRequirements *string `json:"special_requirements,omitempty"`
}

// BookingReceipt is returned by a successful booking.
type BookingReceipt struct {
	BookingID        uint64      `json:"booking_id"`
	ScheduleID       uint64      `json:"schedule_id"`
	VisitorID        uint64      `json:"visitor_id"`
	NumberOfPeople   int         `json:"number_of_people"`
	TotalAmount      model.Money `json:"total_amount"`
	PaymentReference string      `json:"payment_reference"`
	QRCode           string      `json:"qr_code"`
	BookingDate      string      `json:"booking_date"`
	RemainingSlots   int         `json:"remaining_slots"`
}

// BookingService runs the darshan booking transaction and its inverse.
// It is the only writer of DarshanSchedules.RemainingSlots.
type BookingService struct {
	darshan  *repository.DarshanRepo
	bookings *repository.BookingRepo
	visitors *repository.VisitorRepo
	pub      queue.Publisher
	clock    Clock
}

// NewBookingService wires a BookingService.
func NewBookingService(darshan *repository.DarshanRepo, bookings *repository.BookingRepo,
	visitors *repository.VisitorRepo, pub queue.Publisher, clock Clock) *BookingService {
	return &BookingService{darshan: darshan, bookings: bookings, visitors: visitors, pub: pub, clock: clock}
}

// bookingTxOptions: the schedule row lock taken by SELECT ... FOR UPDATE
// serializes concurrent bookings, so READ COMMITTED is enough and avoids
// the gap locks of REPEATABLE READ.
var bookingTxOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

func validateBooking(req BookDarshanRequest) error {
	switch {
	case req.ScheduleID == 0:
		return repository.Invalid("schedule_id", "is required")
	case req.VisitorID == 0:
		return repository.Invalid("visitor_id", "is required")
	case req.NumberOfPeople <= 0:
		return repository.Invalid("number_of_people", "must be positive")
	case req.NumberOfPeople > model.MaxPeoplePerBooking:
		return repository.Invalid("number_of_people", "must be at most %d", model.MaxPeoplePerBooking)
	}
	return nil
}

// BookDarshan books NumberOfPeople slots on a schedule for a visitor.
//
// The schedule row is locked first, so the capacity check and the
// decrement cannot interleave with another booking of the same schedule.
// The decrement is additionally conditional on enough slots remaining.
// A missing or cancelled schedule or a missing visitor yields
// NotFoundError, too few slots yields InsufficientCapacityError, and
// both leave the database untouched.  Any failure while writing rolls
// everything back and is returned as BookingFailedError wrapping the
// cause.
func (s *BookingService) BookDarshan(ctx context.Context, req BookDarshanRequest) (*BookingReceipt, error) {
	if err := validateBooking(req); err != nil {
		return nil, err
	}
	today := s.clock.today()
	var receipt *BookingReceipt

	err := withTx(ctx, s.darshan.DB(), bookingTxOptions, func(tx *sql.Tx) error {
		sched, err := s.darshan.GetScheduleForUpdateTx(ctx, tx, req.ScheduleID)
		if err != nil {
			return err
		}
		if sched.IsCancelled {
			return &repository.NotFoundError{Resource: "schedule", ID: req.ScheduleID}
		}
		if sched.RemainingSlots < req.NumberOfPeople {
			return &repository.InsufficientCapacityError{
				ScheduleID: req.ScheduleID, Requested: req.NumberOfPeople, Remaining: sched.RemainingSlots,
			}
		}
		if _, err := s.visitors.GetByIDForUpdateTx(ctx, tx, req.VisitorID); err != nil {
			return err
		}

		// From here on every failure is a failed booking.
		total := sched.StandardPrice.Mul(req.NumberOfPeople)
		payRef, err := newToken(paymentPrefix)
		if err != nil {
			return &repository.BookingFailedError{Err: fmt.Errorf("payment reference: %w", err)}
		}
		qr, err := QRCodePNG(bookingQRPayload(req.ScheduleID, req.VisitorID, req.NumberOfPeople, payRef))
		if err != nil {
			return &repository.BookingFailedError{Err: fmt.Errorf("qr code: %w", err)}
		}
		b := &model.DarshanBooking{
			ScheduleID:          req.ScheduleID,
			VisitorID:           req.VisitorID,
			NumberOfPeople:      req.NumberOfPeople,
			TotalAmount:         total,
			PaymentStatus:       model.PaymentCompleted,
			PaymentReference:    payRef,
			QRCode:              qr,
			BookingStatus:       model.BookingConfirmed,
			SpecialRequirements: req.SpecialRequirements,
		}
		if err := s.bookings.CreateTx(ctx, tx, b); err != nil {
			return &repository.BookingFailedError{Err: err}
		}
		ok, err := s.darshan.DecrementSlotsTx(ctx, tx, req.ScheduleID, req.NumberOfPeople)
		if err != nil {
			return &repository.BookingFailedError{Err: err}
		}
		if !ok {
			return &repository.BookingFailedError{Err: &repository.InsufficientCapacityError{
				ScheduleID: req.ScheduleID, Requested: req.NumberOfPeople, Remaining: sched.RemainingSlots,
			}}
		}
		if err := s.visitors.TouchLastVisitTx(ctx, tx, req.VisitorID, today); err != nil {
			return &repository.BookingFailedError{Err: err}
		}
		receipt = &BookingReceipt{
			BookingID:        b.ID,
			ScheduleID:       req.ScheduleID,
			VisitorID:        req.VisitorID,
			NumberOfPeople:   req.NumberOfPeople,
			TotalAmount:      total,
			PaymentReference: payRef,
			QRCode:           qr,
			BookingDate:      today,
			RemainingSlots:   sched.RemainingSlots - req.NumberOfPeople,
		}
		return nil
	})
	if err != nil {
		if receipt != nil {
			// the writes succeeded but the commit did not
			return nil, &repository.BookingFailedError{Err: err}
		}
		return nil, err
	}

	publish(ctx, s.pub, s.clock, queue.ActivityEvent{
		Kind: queue.KindDarshanBooked, RecordID: receipt.BookingID, VisitorID: receipt.VisitorID,
		ScheduleID: receipt.ScheduleID, People: receipt.NumberOfPeople,
		Reference: receipt.PaymentReference, Amount: receipt.TotalAmount,
	})
	return receipt, nil
}

// DeleteBooking removes a booking and gives its slots back to the
// schedule, clamped to the schedule's capacity.  A booking that was
// already cancelled had its slots restored at cancellation, so none are
// restored again.  It returns the number of slots restored.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint64) (int, error) {
	var (
		restored int
		booking  *model.DarshanBooking
	)
	err := withTx(ctx, s.darshan.DB(), bookingTxOptions, func(tx *sql.Tx) error {
		b, err := s.bookings.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.bookings.DeleteTx(ctx, tx, id); err != nil {
			return err
		}
		if b.BookingStatus != model.BookingCancelled {
			if err := s.darshan.RestoreSlotsTx(ctx, tx, b.ScheduleID, b.NumberOfPeople); err != nil {
				return err
			}
			restored = b.NumberOfPeople
		}
		booking = b
		return nil
	})
	if err != nil {
		return 0, err
	}
	publish(ctx, s.pub, s.clock, queue.ActivityEvent{
		Kind: queue.KindBookingDeleted, RecordID: id, VisitorID: booking.VisitorID,
		ScheduleID: booking.ScheduleID, People: restored, Amount: booking.TotalAmount,
	})
	return restored, nil
}

// CancelBooking marks a booking Cancelled and restores its slots.  The
// row is kept for history.  Cancelling twice is a conflict.
func (s *BookingService) CancelBooking(ctx context.Context, id uint64) (*model.DarshanBooking, error) {
	var booking *model.DarshanBooking
	err := withTx(ctx, s.darshan.DB(), bookingTxOptions, func(tx *sql.Tx) error {
		b, err := s.bookings.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if b.BookingStatus == model.BookingCancelled {
			return &repository.ConflictError{Resource: "booking", Msg: "already cancelled"}
		}
		if err := s.bookings.SetStatusTx(ctx, tx, id, model.BookingCancelled); err != nil {
			return err
		}
		if err := s.darshan.RestoreSlotsTx(ctx, tx, b.ScheduleID, b.NumberOfPeople); err != nil {
			return err
		}
		b.BookingStatus = model.BookingCancelled
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.pub, s.clock, queue.ActivityEvent{
		Kind: queue.KindBookingCancelled, RecordID: id, VisitorID: booking.VisitorID,
		ScheduleID: booking.ScheduleID, People: booking.NumberOfPeople, Amount: booking.TotalAmount,
	})
	return booking, nil
}

// Get returns the booking with visitor, schedule and temple details.
// phone must be the mobile number of the visitor who booked.
func (s *BookingService) Get(ctx context.Context, id uint64, phone string) (*model.BookingDetail, error) {
	phone, err := requirePhone(phone)
	if err != nil {
		return nil, err
	}
	d, err := s.bookings.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := matchPhone(d.MobileNumber, phone, "booking", id); err != nil {
		return nil, err
	}
	return d, nil
}

// ReceiptPDF renders the booking receipt as a PDF document, under the
// same phone check as Get.
func (s *BookingService) ReceiptPDF(ctx context.Context, id uint64, phone string) ([]byte, error) {
	d, err := s.Get(ctx, id, phone)
	if err != nil {
		return nil, err
	}
	return BookingReceiptPDF(d)
}
