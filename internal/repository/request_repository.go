package repository

import (
	"context"
	"database/sql"

	"github.com/jeremyha1/cherry/internal/booking"
	"github.com/jeremyha1/cherry/internal/model"
)

// RequestRepo provides access to booking requests and drives the
// writes that must touch requests and neighbouring tables together:
// deciding a request (which books the listing) and migrating legacy
// notes into the thread.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo returns a new RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

const requestCols = `id, listing_id, host_id, guest_id, message, requested_date, status, created_at, updated_at`

func scanRequest(row interface{ Scan(...interface{}) error }) (model.Request, error) {
	var (
		r    model.Request
		note sql.NullString
		date sql.NullString
	)
	err := row.Scan(&r.ID, &r.ListingID, &r.HostID, &r.GuestID, &note, &date,
		&r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return r, err
	}
	if note.Valid {
		n := note.String
		r.Message = &n
	}
	if date.Valid {
		d := date.String
		r.RequestedDate = &d
	}
	return r, nil
}

// Create files a new pending request from a guest against a listing.
// The listing must exist, must not belong to the guest, must not be
// booked already, and the guest must not have an undecided or
// accepted request for it yet. The listing owner is denormalized
// into host_id at this point.
func (r *RequestRepo) Create(ctx context.Context, req *model.Request) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var (
		hostID   uint64
		isBooked bool
	)
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, is_booked FROM listings WHERE id = ? LIMIT 1",
		req.ListingID).Scan(&hostID, &isBooked)
	if err == sql.ErrNoRows {
		return ErrListingNotFound
	}
	if err != nil {
		return err
	}
	if hostID == req.GuestID {
		return ErrForbidden
	}
	if isBooked {
		return ErrConflict
	}

	var dup int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM requests WHERE listing_id = ? AND guest_id = ? AND status <> 'declined'",
		req.ListingID, req.GuestID).Scan(&dup)
	if err != nil {
		return err
	}
	if dup > 0 {
		return ErrDuplicateRequest
	}

	req.HostID = hostID
	req.Status = model.StatusPending
	res, err := tx.ExecContext(ctx,
		`INSERT INTO requests (listing_id, host_id, guest_id, message, requested_date, status)
		 VALUES (?, ?, ?, ?, ?, 'pending')`,
		req.ListingID, req.HostID, req.GuestID, req.Message, req.RequestedDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)

	// Read back so timestamps match what the database assigned.
	row := tx.QueryRowContext(ctx,
		`SELECT `+requestCols+` FROM requests WHERE id = ?`, req.ID)
	*req, err = scanRequest(row)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID retrieves a single request.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (model.Request, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestCols+` FROM requests WHERE id = ? LIMIT 1`, id)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return req, ErrRequestNotFound
	}
	return req, err
}

// ListVisibleToUser returns every request the user participates in,
// on either side, oldest first. This is the working set for the
// bookings views; bucketing and unread derivation happen in memory.
func (r *RequestRepo) ListVisibleToUser(ctx context.Context, userID uint64) ([]model.Request, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestCols+` FROM requests
		 WHERE host_id = ? OR guest_id = ?
		 ORDER BY created_at ASC, id ASC`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ListByGuest returns the requests a guest has filed, newest first.
func (r *RequestRepo) ListByGuest(ctx context.Context, guestID uint64) ([]model.Request, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestCols+` FROM requests
		 WHERE guest_id = ?
		 ORDER BY created_at DESC, id DESC`,
		guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Decide moves a pending request to accepted or declined. Only the
// listing's host may decide, and the request must still be pending;
// deciding twice returns ErrConflict. Accepting also marks the
// listing booked, in the same transaction, so a crash between the
// two writes cannot leave an accepted request on an open slot.
func (r *RequestRepo) Decide(ctx context.Context, hostID, requestID uint64, status string) (model.Request, error) {
	var out model.Request
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+requestCols+` FROM requests WHERE id = ? LIMIT 1 FOR UPDATE`, requestID)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return out, ErrRequestNotFound
	}
	if err != nil {
		return out, err
	}
	if req.HostID != hostID {
		return out, ErrForbidden
	}
	if req.Status != model.StatusPending {
		return out, ErrConflict
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE requests SET status=?, updated_at=NOW() WHERE id=?",
		status, requestID); err != nil {
		return out, err
	}
	if status == model.StatusAccepted {
		if _, err := tx.ExecContext(ctx,
			"UPDATE listings SET is_booked=TRUE, updated_at=NOW() WHERE id=?",
			req.ListingID); err != nil {
			return out, err
		}
	}

	row = tx.QueryRowContext(ctx,
		`SELECT `+requestCols+` FROM requests WHERE id = ?`, requestID)
	out, err = scanRequest(row)
	if err != nil {
		return out, err
	}
	return out, tx.Commit()
}

// BackfillLegacyNote migrates the request's inline note into its
// thread when the guest opens the booking. It re-plans under a row
// lock so concurrent opens of the same thread cannot both insert,
// and the insert and the note clear land in one transaction. The
// returned request reflects the post-migration state.
func (r *RequestRepo) BackfillLegacyNote(ctx context.Context, requestID, viewerID uint64) (model.Request, error) {
	var out model.Request
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+requestCols+` FROM requests WHERE id = ? LIMIT 1 FOR UPDATE`, requestID)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return out, ErrRequestNotFound
	}
	if err != nil {
		return out, err
	}

	thread, err := listMessagesTx(ctx, tx, requestID)
	if err != nil {
		return out, err
	}

	switch booking.PlanBackfill(req, thread, viewerID) {
	case booking.BackfillNone:
		return req, tx.Commit()
	case booking.BackfillInsert:
		m := booking.SynthesizeNote(req)
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO messages (request_id, sender_id, body, created_at) VALUES (?,?,?,?)",
			m.RequestID, m.SenderID, m.Body, m.CreatedAt); err != nil {
			return out, err
		}
	case booking.BackfillClearOnly:
		// Insert already landed on a previous run; just finish the
		// clear below.
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE requests SET message=NULL, updated_at=NOW() WHERE id=?",
		requestID); err != nil {
		return out, err
	}
	row = tx.QueryRowContext(ctx,
		`SELECT `+requestCols+` FROM requests WHERE id = ?`, requestID)
	out, err = scanRequest(row)
	if err != nil {
		return out, err
	}
	return out, tx.Commit()
}
