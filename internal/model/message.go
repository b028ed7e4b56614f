package model

import "time"

// Message is one chat entry in a booking request's thread, as stored
// in the `messages` table. Thread display order is CreatedAt
// ascending; ties keep insertion order from the store. The only
// message ever written with a non-current CreatedAt is the legacy
// backfill, which mirrors the request's creation timestamp to keep
// historical ordering.
//
// Fields:
//  ID        – primary key identifier.
//  RequestID – thread this message belongs to.
//  SenderID  – user who sent it (guest or host).
//  Body      – message text.
//  CreatedAt – creation timestamp.
type Message struct {
	ID        uint64    // messages.id
	RequestID uint64    // messages.request_id
	SenderID  uint64    // messages.sender_id
	Body      string    // messages.body
	CreatedAt time.Time // messages.created_at
}
