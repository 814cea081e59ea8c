package model

import "time"

// Booking and payment status values stored in DarshanBookings.
const (
	BookingConfirmed = "Confirmed"
	BookingCancelled = "Cancelled"
	PaymentCompleted = "Completed"
)

// MaxPeoplePerBooking bounds NumberOfPeople for a single darshan booking.
const MaxPeoplePerBooking = 10

// DarshanType is catalog data: a kind of visit offered by a temple.
// Duration is in minutes.
type DarshanType struct {
	ID            uint64  `json:"id"`
	TempleID      uint64  `json:"temple_id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	Duration      int     `json:"duration_minutes"`
	MaxCapacity   int     `json:"max_capacity"`
	StandardPrice Money   `json:"standard_price"`
	IsSpecial     bool    `json:"is_special"`
}

// Schedule is a bookable instance of a darshan type joined with the
// type's name, price and duration.  RemainingSlots is the only mutable
// counter in the system; 0 <= RemainingSlots <= CurrentCapacity.
//
// Fields:
//
//	ScheduleDate – calendar date ("YYYY-MM-DD").
//	StartTime    – wall-clock "HH:MM".
//	EndTime      – wall-clock "HH:MM".
type Schedule struct {
	ID              uint64  `json:"id"`
	TempleID        uint64  `json:"temple_id"`
	DarshanTypeID   uint64  `json:"darshan_type_id"`
	FestivalID      *uint64 `json:"festival_id,omitempty"`
	ScheduleDate    string  `json:"schedule_date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	CurrentCapacity int     `json:"current_capacity"`
	RemainingSlots  int     `json:"remaining_slots"`
	IsCancelled     bool    `json:"is_cancelled"`
	DarshanName     string  `json:"darshan_name"`
	StandardPrice   Money   `json:"standard_price"`
	Duration        int     `json:"duration_minutes"`
}

// DarshanBooking is one row of DarshanBookings.  QRCode holds the base64
// PNG receipt; it is opaque and never parsed back.
type DarshanBooking struct {
	ID                  uint64    `json:"id"`
	ScheduleID          uint64    `json:"schedule_id"`
	VisitorID           uint64    `json:"visitor_id"`
	BookingDateTime     time.Time `json:"booking_datetime"`
	NumberOfPeople      int       `json:"number_of_people"`
	TotalAmount         Money     `json:"total_amount"`
	PaymentStatus       string    `json:"payment_status"`
	PaymentReference    string    `json:"payment_reference"`
	QRCode              string    `json:"qr_code,omitempty"`
	BookingStatus       string    `json:"booking_status"`
	SpecialRequirements *string   `json:"special_requirements,omitempty"`
}

// BookingDetail is the joined view shown on a booking confirmation.
type BookingDetail struct {
	BookingID        uint64 `json:"booking_id"`
	ScheduleID       uint64 `json:"schedule_id"`
	VisitorID        uint64 `json:"visitor_id"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	MobileNumber     string `json:"mobile_number"`
	DarshanName      string `json:"darshan_name"`
	ScheduleDate     string `json:"schedule_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	NumberOfPeople   int    `json:"number_of_people"`
	TotalAmount      Money  `json:"total_amount"`
	PaymentStatus    string `json:"payment_status"`
	PaymentReference string `json:"payment_reference"`
	BookingStatus    string `json:"booking_status"`
	QRCode           string `json:"qr_code,omitempty"`
	TempleName       string `json:"temple_name"`
	Location         string `json:"location"`
}

// VisitorBooking is a row of a visitor's booking history.
type VisitorBooking struct {
	BookingID      uint64 `json:"booking_id"`
	DarshanName    string `json:"darshan_name"`
	ScheduleDate   string `json:"schedule_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	NumberOfPeople int    `json:"number_of_people"`
	TotalAmount    Money  `json:"total_amount"`
	BookingStatus  string `json:"booking_status"`
	TempleName     string `json:"temple_name"`
}
