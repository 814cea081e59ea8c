package model

import "time"

// OrderProcessing is the initial status of a prasadam order.
const OrderProcessing = "Processing"

// Prasadam order limits and the flat shipping charge.
const (
	MaxPrasadamQuantity   = 20
	EstimatedDeliveryDays = 7
)

// PrasadamShipping is added once to every prasadam order.
var PrasadamShipping = Rupees(100)

// PrasadamType is a shippable offering.
type PrasadamType struct {
	ID          uint64  `json:"id"`
	TempleID    uint64  `json:"temple_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       Money   `json:"price"`
	IsActive    bool    `json:"is_active"`
}

// PrasadamOrder is one order row.
type PrasadamOrder struct {
	ID                uint64    `json:"id"`
	VisitorID         uint64    `json:"visitor_id"`
	TempleID          uint64    `json:"temple_id"`
	PrasadamTypeID    uint64    `json:"prasadam_type_id"`
	OrderDate         time.Time `json:"order_date"`
	Quantity          int       `json:"quantity"`
	TotalAmount       Money     `json:"total_amount"`
	ShippingAddress   string    `json:"shipping_address"`
	TrackingNumber    string    `json:"tracking_number"`
	OrderStatus       string    `json:"order_status"`
	EstimatedDelivery string    `json:"estimated_delivery"`
}

// VisitorPrasadamOrder is a row of a visitor's order history.
type VisitorPrasadamOrder struct {
	OrderID           uint64    `json:"order_id"`
	PrasadamName      string    `json:"prasadam_name"`
	OrderDate         time.Time `json:"order_date"`
	Quantity          int       `json:"quantity"`
	TotalAmount       Money     `json:"total_amount"`
	TrackingNumber    *string   `json:"tracking_number,omitempty"`
	OrderStatus       string    `json:"order_status"`
	EstimatedDelivery *string   `json:"estimated_delivery,omitempty"`
}
