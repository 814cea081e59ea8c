// Package queue defines the activity events exchanged over the message
// broker together with their publisher and the background consumer.
package queue

import "github.com/iliyamo/temple-visitor-services/internal/model"

// ActivityQueueName is the durable queue carrying ActivityEvent messages.
const ActivityQueueName = "temple.activity"

// Event kinds.
const (
	KindDarshanBooked     = "darshan_booked"
	KindBookingCancelled  = "booking_cancelled"
	KindBookingDeleted    = "booking_deleted"
	KindDonationRecorded  = "donation_recorded"
	KindPujaBooked        = "puja_booked"
	KindPrasadamOrdered   = "prasadam_ordered"
	KindVisitorRegistered = "visitor_registered"
	KindVisitorDeleted    = "visitor_deleted"
)

// ActivityEvent is published after a write commits.  It carries enough
// information for downstream consumers to log, notify or trigger
// analytics without querying the primary database.
type ActivityEvent struct {
	Kind       string      `json:"kind"`
	RecordID   uint64      `json:"record_id"`
	TempleID   uint64      `json:"temple_id,omitempty"`
	VisitorID  uint64      `json:"visitor_id,omitempty"`
	ScheduleID uint64      `json:"schedule_id,omitempty"`
	People     int         `json:"people,omitempty"`
	Reference  string      `json:"reference,omitempty"`
	Amount     model.Money `json:"amount"`
	OccurredAt string      `json:"occurred_at"`
}
