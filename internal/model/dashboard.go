package model

// Dashboard is the admin summary for one temple on one day.
type Dashboard struct {
	TempleID        uint64          `json:"temple_id"`
	Date            string          `json:"date"`
	TodayBookings   int             `json:"today_bookings"`
	TodayVisitors   int             `json:"today_visitors"`
	TodayBookingAmt Money           `json:"today_booking_amount"`
	TodayDonations  int             `json:"today_donations"`
	TodayDonatedAmt Money           `json:"today_donation_amount"`
	RecentVisitors  []RecentVisitor `json:"recent_visitors"`
	DarshanStats    []DarshanStat   `json:"darshan_stats"`
	DonationStats   []DonationStat  `json:"donation_stats"`
}

// RecentVisitor is a visitor who has booked at the temple, newest first.
type RecentVisitor struct {
	VisitorID    uint64  `json:"visitor_id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	MobileNumber string  `json:"mobile_number"`
	LastVisit    *string `json:"last_visit,omitempty"`
}

type DarshanStat struct {
	DarshanName  string `json:"darshan_name"`
	BookingCount int    `json:"booking_count"`
}

type DonationStat struct {
	TypeName      string `json:"type_name"`
	DonationCount int    `json:"donation_count"`
	TotalAmount   Money  `json:"total_amount"`
}
