package model

// PujaScheduled is the initial status of a virtual puja.
const PujaScheduled = "Scheduled"

// PujaType is a ritual offered virtually.  Duration is in minutes.
type PujaType struct {
	ID          uint64  `json:"id"`
	TempleID    uint64  `json:"temple_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Duration    int     `json:"duration_minutes"`
	Price       Money   `json:"price"`
	IsActive    bool    `json:"is_active"`
}

// VirtualPuja is a puja booked on behalf of a remote devotee.
type VirtualPuja struct {
	ID             uint64  `json:"id"`
	TempleID       uint64  `json:"temple_id"`
	VisitorID      uint64  `json:"visitor_id"`
	PujaTypeID     uint64  `json:"puja_type_id"`
	PujaDate       string  `json:"puja_date"`
	PujaTime       string  `json:"puja_time"`
	TotalAmount    Money   `json:"total_amount"`
	PujaStatus     string  `json:"puja_status"`
	ReceiptNumber  string  `json:"receipt_number"`
	DevoteeMessage *string `json:"devotee_message,omitempty"`
}

// VisitorPuja is a row of a visitor's puja history.
type VisitorPuja struct {
	PujaID        uint64 `json:"puja_id"`
	PujaName      string `json:"puja_name"`
	PujaDate      string `json:"puja_date"`
	PujaTime      string `json:"puja_time"`
	TotalAmount   Money  `json:"total_amount"`
	PujaStatus    string `json:"puja_status"`
	ReceiptNumber string `json:"receipt_number"`
}
