package model

import "time"

// RoleAdmin is the only role carried in access tokens.
const RoleAdmin = "ADMIN"

// Admin is a credential row of the Admins table.  PasswordHash is a
// bcrypt digest; the plain password is never stored.
type Admin struct {
	ID           uint64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// SearchFilter narrows admin searches.  Query matches names and phone
// numbers as a substring; Date restricts to one calendar day.
type SearchFilter struct {
	Query string
	Date  string
	Limit int
}

// BookingSearchRow is an admin search hit in DarshanBookings.
type BookingSearchRow struct {
	BookingID      uint64    `json:"booking_id"`
	VisitorName    string    `json:"visitor_name"`
	MobileNumber   string    `json:"mobile_number"`
	DarshanName    string    `json:"darshan_name"`
	ScheduleDate   string    `json:"schedule_date"`
	StartTime      string    `json:"start_time"`
	NumberOfPeople int       `json:"number_of_people"`
	TotalAmount    Money     `json:"total_amount"`
	BookingStatus  string    `json:"booking_status"`
	BookedAt       time.Time `json:"booked_at"`
}

// DonationSearchRow is an admin search hit in Donations.
type DonationSearchRow struct {
	DonationID    uint64    `json:"donation_id"`
	DonorName     string    `json:"donor_name"`
	DonorPhone    string    `json:"donor_phone"`
	TypeName      string    `json:"type_name"`
	Amount        Money     `json:"amount"`
	PaymentMode   string    `json:"payment_mode"`
	ReceiptNumber *string   `json:"receipt_number,omitempty"`
	DonationDate  time.Time `json:"donation_date"`
}

// PujaSearchRow is an admin search hit in VirtualPujas.
type PujaSearchRow struct {
	PujaID        uint64 `json:"puja_id"`
	VisitorName   string `json:"visitor_name"`
	MobileNumber  string `json:"mobile_number"`
	PujaName      string `json:"puja_name"`
	PujaDate      string `json:"puja_date"`
	PujaTime      string `json:"puja_time"`
	TotalAmount   Money  `json:"total_amount"`
	PujaStatus    string `json:"puja_status"`
	ReceiptNumber string `json:"receipt_number"`
}

// OrderSearchRow is an admin search hit in PrasadamOrders.
type OrderSearchRow struct {
	OrderID        uint64    `json:"order_id"`
	VisitorName    string    `json:"visitor_name"`
	MobileNumber   string    `json:"mobile_number"`
	PrasadamName   string    `json:"prasadam_name"`
	Quantity       int       `json:"quantity"`
	TotalAmount    Money     `json:"total_amount"`
	TrackingNumber *string   `json:"tracking_number,omitempty"`
	OrderStatus    string    `json:"order_status"`
	OrderDate      time.Time `json:"order_date"`
}

// DeleteVisitorResult reports what a visitor delete removed.
type DeleteVisitorResult struct {
	VisitorID        uint64 `json:"visitor_id"`
	BookingsDeleted  int64  `json:"bookings_deleted"`
	DonationsDeleted int64  `json:"donations_deleted"`
	PujasDeleted     int64  `json:"pujas_deleted"`
	OrdersDeleted    int64  `json:"orders_deleted"`
	SlotsRestored    int64  `json:"slots_restored"`
}

// Overview is the record-count summary plus the latest activity.
type Overview struct {
	Counts         map[string]int `json:"counts"`
	RecentActivity []ActivityItem `json:"recent_activity"`
}

// ActivityItem is one line of the recent activity feed.
type ActivityItem struct {
	Kind        string    `json:"kind"`
	ID          uint64    `json:"id"`
	Description string    `json:"description"`
	Amount      Money     `json:"amount"`
	At          time.Time `json:"at"`
}
