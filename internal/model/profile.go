package model

import "time"

// Profile is a user's public display identity as stored in the
// `profiles` table. The primary key doubles as the foreign key into
// `users`; a profile row is created empty at registration and filled
// in by the user afterwards. Profiles are read for presentation
// (host/guest names next to listings and threads) and are never
// touched by the booking state derivation.
//
// Fields:
//  ID          – user id this profile belongs to (profiles.id = users.id).
//  FullName    – display name shown across the site (may be empty).
//  Role        – marketplace role the user presents as (host or guest).
//  Bio         – free-text self description.
//  Age         – free-text age field (kept as text, matching the form).
//  Interests   – comma separated interests.
//  LinkedinURL – optional external profile link.
//  AvatarURL   – public URL of the uploaded avatar image.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Profile struct {
	ID          uint64    // profiles.id
	FullName    string    // profiles.full_name
	Role        string    // profiles.role
	Bio         string    // profiles.bio
	Age         string    // profiles.age
	Interests   string    // profiles.interests
	LinkedinURL string    // profiles.linkedin_url
	AvatarURL   string    // profiles.avatar_url
	CreatedAt   time.Time // profiles.created_at
	UpdatedAt   time.Time // profiles.updated_at
}

// DisplayName returns the profile's full name or a neutral fallback
// when the user has not filled their profile in yet.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return "Cherry user"
}
