package model

import "time"

// Visitor is a devotee identity record.  MobileNumber acts as the natural
// key for lookups but is not unique in storage, so several rows may share
// one number.
//
// Fields:
//
//	ID               – Visitors.VisitorID.
//	RegistrationDate – set by the database on insert.
//	LastVisit        – calendar date of the latest interaction, nil
//	                   until the first booking/donation/puja/order.
type Visitor struct {
	ID               uint64    `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	MobileNumber     string    `json:"mobile_number"`
	EmailAddress     *string   `json:"email_address,omitempty"`
	RegistrationDate time.Time `json:"registration_date"`
	Address          *string   `json:"address,omitempty"`
	City             *string   `json:"city,omitempty"`
	State            *string   `json:"state,omitempty"`
	PINCode          *string   `json:"pin_code,omitempty"`
	LastVisit        *string   `json:"last_visit,omitempty"`
}

// FullName joins first and last name.
func (v Visitor) FullName() string { return v.FirstName + " " + v.LastName }

// VisitorInput carries the registration fields accepted from callers.
type VisitorInput struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	MobileNumber string  `json:"mobile_number"`
	EmailAddress *string `json:"email_address,omitempty"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PINCode      *string `json:"pin_code,omitempty"`
}

// VisitorHistory aggregates everything a visitor has done across the
// four activity tables.
type VisitorHistory struct {
	Visitor   Visitor                `json:"visitor"`
	Bookings  []VisitorBooking       `json:"bookings"`
	Donations []VisitorDonation      `json:"donations"`
	Pujas     []VisitorPuja          `json:"pujas"`
	Orders    []VisitorPrasadamOrder `json:"prasadam_orders"`
}
