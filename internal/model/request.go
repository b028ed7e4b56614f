package model

import "time"

// Request status values. A request starts out pending and is decided
// exactly once by the listing's host; there is no transition back to
// pending.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// ValidStatus reports whether s is one of the known request statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Request records a guest's ask to book a listing, as stored in the
// `requests` table. Exactly one guest per request; the chat thread
// for the booking hangs off this row. The Message column is a legacy
// free-text note from before threads existed — it is migrated into
// the thread as the first message on the guest's next view and then
// cleared, so on healthy data it is null.
//
// Fields:
//  ID            – primary key identifier.
//  ListingID     – listing being requested.
//  HostID        – the listing's owner, denormalized at creation so
//                  visibility checks need no join.
//  GuestID       – user asking to book.
//  Message       – legacy inline note (nullable; cleared by backfill).
//  RequestedDate – guest's preferred date, free text (nullable).
//  Status        – pending, accepted or declined.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Request struct {
	ID            uint64    // requests.id
	ListingID     uint64    // requests.listing_id
	HostID        uint64    // requests.host_id (denormalized listing owner)
	GuestID       uint64    // requests.guest_id
	Message       *string   // requests.message (nullable legacy note)
	RequestedDate *string   // requests.requested_date (nullable)
	Status        string    // requests.status
	CreatedAt     time.Time // requests.created_at
	UpdatedAt     time.Time // requests.updated_at
}

// IsParticipant reports whether userID is the request's host or
// guest. Only participants may read the thread or post to it.
func (r Request) IsParticipant(userID uint64) bool {
	return userID == r.HostID || userID == r.GuestID
}

// Other returns the counterparty's user id from the viewer's side.
func (r Request) Other(viewerID uint64) uint64 {
	if viewerID == r.HostID {
		return r.GuestID
	}
	return r.HostID
}
