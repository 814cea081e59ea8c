package model

import "time"

// Payment modes accepted for donations.
var PaymentModes = []string{"UPI", "Credit Card", "Debit Card", "Net Banking"}

// AnonymousDonorName is recorded when an anonymous donation carries no name.
const AnonymousDonorName = "Anonymous Donor"

// DonationType is a donation category with a minimum amount.
type DonationType struct {
	ID            uint64  `json:"id"`
	TempleID      uint64  `json:"temple_id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	MinimumAmount Money   `json:"minimum_amount"`
	IsActive      bool    `json:"is_active"`
	DisplayOrder  *int    `json:"display_order,omitempty"`
}

// Donation is a recorded donation.  VisitorID is nil for anonymous
// donations.
type Donation struct {
	ID                   uint64    `json:"id"`
	TempleID             uint64    `json:"temple_id"`
	DonationTypeID       uint64    `json:"donation_type_id"`
	VisitorID            *uint64   `json:"visitor_id,omitempty"`
	DonationDate         time.Time `json:"donation_date"`
	Amount               Money     `json:"amount"`
	PaymentMode          string    `json:"payment_mode"`
	TransactionReference *string   `json:"transaction_reference,omitempty"`
	ReceiptNumber        string    `json:"receipt_number"`
	IsAnonymous          bool      `json:"is_anonymous"`
	DonorName            *string   `json:"donor_name,omitempty"`
	DonorPhone           *string   `json:"donor_phone,omitempty"`
	DonorEmail           *string   `json:"donor_email,omitempty"`
}

// VisitorDonation is a row of a visitor's donation history.
type VisitorDonation struct {
	DonationID    uint64    `json:"donation_id"`
	TypeName      string    `json:"type_name"`
	DonationDate  time.Time `json:"donation_date"`
	Amount        Money     `json:"amount"`
	PaymentMode   string    `json:"payment_mode"`
	ReceiptNumber *string   `json:"receipt_number,omitempty"`
	TempleName    string    `json:"temple_name"`
}
