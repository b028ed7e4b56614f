// Package queue defines message payloads exchanged over the message broker.
package queue

// RequestDecidedEvent is published when a host accepts or declines a
// booking request. It carries enough for downstream consumers to
// log, notify the guest, or feed analytics without querying the
// primary database.
type RequestDecidedEvent struct {
	RequestID     uint64  `json:"request_id"`
	ListingID     uint64  `json:"listing_id"`
	ListingTitle  string  `json:"listing_title"`
	HostID        uint64  `json:"host_id"`
	GuestID       uint64  `json:"guest_id"`
	Status        string  `json:"status"` // accepted | declined
	AvailableDate *string `json:"available_date,omitempty"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	DecidedAt     string  `json:"decided_at"`
}
