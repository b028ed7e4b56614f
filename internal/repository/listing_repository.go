package repository

import (
	"context"
	"database/sql"

	"github.com/jeremyha1/cherry/internal/model"
)

// ListingRepo provides CRUD operations for host listings. Ownership
// checks happen here so handlers only deal with sentinel errors.
// DATE and TIME columns are nullable; TIME values scan as clock
// strings, never as instants.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo constructs a ListingRepo with the given DB handle.
func NewListingRepo(db *sql.DB) *ListingRepo {
	return &ListingRepo{db: db}
}

const listingCols = `id, user_id, title, description, location, city, state,
	available_date, start_time, end_time, is_booked, created_at, updated_at`

func scanListing(row interface{ Scan(...interface{}) error }) (model.Listing, error) {
	var (
		l         model.Listing
		desc      sql.NullString
		location  sql.NullString
		city      sql.NullString
		state     sql.NullString
		date      sql.NullTime
		startTime sql.NullString
		endTime   sql.NullString
	)
	err := row.Scan(&l.ID, &l.UserID, &l.Title, &desc, &location, &city, &state,
		&date, &startTime, &endTime, &l.IsBooked, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return l, err
	}
	l.Description = desc.String
	l.Location = location.String
	l.City = city.String
	l.State = state.String
	if date.Valid {
		d := date.Time
		l.AvailableDate = &d
	}
	if startTime.Valid {
		s := startTime.String
		l.StartTime = &s
	}
	if endTime.Valid {
		e := endTime.String
		l.EndTime = &e
	}
	return l, nil
}

// Create inserts a listing. On success the listing's ID is populated.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	const q = `INSERT INTO listings
		(user_id, title, description, location, city, state, available_date, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		l.UserID, l.Title, nullIfEmpty(l.Description), nullIfEmpty(l.Location),
		nullIfEmpty(l.City), nullIfEmpty(l.State), l.AvailableDate, l.StartTime, l.EndTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID retrieves a single listing.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (model.Listing, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+listingCols+` FROM listings WHERE id = ? LIMIT 1`, id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return l, ErrListingNotFound
	}
	return l, err
}

// ListByHost returns all listings published by the given host,
// newest first.
func (r *ListingRepo) ListByHost(ctx context.Context, hostID uint64) ([]model.Listing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+listingCols+` FROM listings WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// MapByIDs loads the listings for the given ids into a map. IDs with
// no backing row are simply absent from the result; callers treat
// that as a data anomaly.
func (r *ListingRepo) MapByIDs(ctx context.Context, ids []uint64) (map[uint64]model.Listing, error) {
	out := make(map[uint64]model.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + listingCols + ` FROM listings WHERE id IN (`
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out[l.ID] = l
	}
	return out, rows.Err()
}

// Update overwrites the editable fields of a listing owned by
// hostID. Returns ErrListingNotFound if the row does not exist and
// ErrForbidden if it belongs to someone else.
func (r *ListingRepo) Update(ctx context.Context, hostID uint64, l *model.Listing) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM listings WHERE id = ? LIMIT 1", l.ID).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrListingNotFound
	}
	if err != nil {
		return err
	}
	if owner != hostID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE listings
		 SET title=?, description=?, location=?, city=?, state=?,
		     available_date=?, start_time=?, end_time=?, updated_at=NOW()
		 WHERE id=?`,
		l.Title, nullIfEmpty(l.Description), nullIfEmpty(l.Location),
		nullIfEmpty(l.City), nullIfEmpty(l.State),
		l.AvailableDate, l.StartTime, l.EndTime, l.ID)
	return err
}

// Delete removes a listing owned by hostID. The delete is refused
// with ErrConflict while any non-declined request still points at
// the listing, so no guest loses a live booking silently.
func (r *ListingRepo) Delete(ctx context.Context, hostID, listingID uint64) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id FROM listings WHERE id = ? LIMIT 1", listingID).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrListingNotFound
	}
	if err != nil {
		return err
	}
	if owner != hostID {
		return ErrForbidden
	}
	var open int
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM requests WHERE listing_id = ? AND status <> 'declined'",
		listingID).Scan(&open)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = ?", listingID)
	return err
}
