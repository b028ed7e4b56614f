// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current
// user is not authorized to act on a resource owned by someone else,
// while ErrConflict signals that an operation cannot proceed due to
// existing dependent records (e.g. deleting a listing that still has
// open requests).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own or are not a participant in.
// Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot be performed because
// of conflicting state, such as deleting a listing with undecided
// requests or re-requesting an already booked slot. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrListingNotFound is returned when a listing lookup yields no rows.
var ErrListingNotFound = errors.New("listing not found")

// ErrRequestNotFound is returned when a booking request lookup yields
// no rows.
var ErrRequestNotFound = errors.New("request not found")

// ErrDuplicateRequest is returned when a guest already has a request
// for the same listing.
var ErrDuplicateRequest = errors.New("request already exists for listing")
