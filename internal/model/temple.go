package model

// Temple is a row of the Temples table.  Opening and closing times are
// wall-clock values rendered as "HH:MM" with no time zone attached.
//
// Fields:
//
//	ID               – Temples.TempleID.
//	Name             – display name.
//	Location         – free-form address line.
//	MaxDailyCapacity – advertised ceiling of visitors per day.
//	FoundingYear     – optional founding year.
//	OpeningTime      – daily opening time.
//	ClosingTime      – daily closing time.
//	IsActive         – inactive temples are hidden from listings.
type Temple struct {
	ID               uint64  `json:"id"`
	Name             string  `json:"name"`
	Location         string  `json:"location"`
	MaxDailyCapacity int     `json:"max_daily_capacity"`
	FoundingYear     *int    `json:"founding_year,omitempty"`
	Description      *string `json:"description,omitempty"`
	OpeningTime      string  `json:"opening_time"`
	ClosingTime      string  `json:"closing_time"`
	ContactNumber    *string `json:"contact_number,omitempty"`
	EmailAddress     *string `json:"email_address,omitempty"`
	WebsiteURL       *string `json:"website_url,omitempty"`
	IsActive         bool    `json:"is_active"`
}

// Festival is a dated celebration at a temple.  StartDate and EndDate
// are calendar dates ("YYYY-MM-DD").
type Festival struct {
	ID                      uint64  `json:"id"`
	TempleID                uint64  `json:"temple_id"`
	Name                    string  `json:"name"`
	Description             *string `json:"description,omitempty"`
	StartDate               string  `json:"start_date"`
	EndDate                 string  `json:"end_date"`
	SpecialDarshanAvailable bool    `json:"special_darshan_available"`
}
