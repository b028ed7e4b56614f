package model

import "time"

// Listing is a host-published time slot as stored in the `listings`
// table. The slot is described by a calendar date plus start and end
// times of day; all three are nullable, and a listing missing the
// date or the end time has no determinable end instant and therefore
// never expires. Times of day are carried as clock strings
// ("15:04:05") exactly as MySQL TIME columns scan; combining them
// with the date into an instant is the deriver's job, not the
// model's.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – host who published the listing.
//  Title         – short headline for the slot.
//  Description   – longer free-text pitch.
//  Location      – specific place (venue, landmark).
//  City          – city name.
//  State         – state or region code.
//  AvailableDate – calendar date of the slot (nullable).
//  StartTime     – start time of day as "HH:MM:SS" (nullable).
//  EndTime       – end time of day as "HH:MM:SS" (nullable); must be
//                  strictly after StartTime when both are present,
//                  enforced at the handler boundary.
//  IsBooked      – set once a request for the slot is accepted.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Listing struct {
	ID            uint64     // listings.id
	UserID        uint64     // listings.user_id
	Title         string     // listings.title
	Description   string     // listings.description
	Location      string     // listings.location
	City          string     // listings.city
	State         string     // listings.state
	AvailableDate *time.Time // listings.available_date (nullable DATE)
	StartTime     *string    // listings.start_time (nullable TIME)
	EndTime       *string    // listings.end_time (nullable TIME)
	IsBooked      bool       // listings.is_booked
	CreatedAt     time.Time  // listings.created_at
	UpdatedAt     time.Time  // listings.updated_at
}
