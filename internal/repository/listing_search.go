package repository

import (
	"context"
	"strings"
)

// ListingSearchQuery defines filters & pagination for browsing open
// listings.
type ListingSearchQuery struct {
	Text     string // substring match over location, city, state and title
	City     string
	State    string
	Date     string // "2006-01-02"; exact available_date match
	Page     int
	PageSize int
}

// PublicListingRow is the browse-facing projection of a listing,
// joined with the host's display name.
type PublicListingRow struct {
	ID            uint64  `json:"id"`
	HostID        uint64  `json:"host_id"`
	HostName      string  `json:"host_name"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	AvailableDate *string `json:"available_date"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
}

// SearchOpen returns unbooked listings matching the query, plus a
// total count for pagination. Already booked slots never show up in
// browse results.
func (r *ListingRepo) SearchOpen(ctx context.Context, q ListingSearchQuery) ([]PublicListingRow, int64, error) {
	cond, args := searchConditions(q)

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM listings l
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			l.id,
			l.user_id,
			COALESCE(p.full_name, '') AS host_name,
			l.title,
			COALESCE(l.description, '') AS description,
			COALESCE(l.location, '') AS location,
			COALESCE(l.city, '') AS city,
			COALESCE(l.state, '') AS state,
			DATE_FORMAT(l.available_date, '%Y-%m-%d') AS available_date,
			l.start_time,
			l.end_time
		FROM listings l
		LEFT JOIN profiles p ON p.id = l.user_id
		WHERE ` + cond + `
		ORDER BY (l.available_date IS NULL), l.available_date ASC, l.id ASC
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicListingRow, 0, limit)
	for rows.Next() {
		var d PublicListingRow
		if err := rows.Scan(
			&d.ID,
			&d.HostID,
			&d.HostName,
			&d.Title,
			&d.Description,
			&d.Location,
			&d.City,
			&d.State,
			&d.AvailableDate,
			&d.StartTime,
			&d.EndTime,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// searchConditions turns a ListingSearchQuery into the WHERE clause
// shared by the count and data queries. The free-text term searches
// where a guest would look for a slot: location, city and state, with
// title as a bonus match.
func searchConditions(q ListingSearchQuery) (string, []any) {
	where := []string{"l.is_booked = FALSE"}
	args := []any{}

	if q.Text != "" {
		where = append(where,
			"(LOWER(l.location) LIKE ? OR LOWER(l.city) LIKE ? OR LOWER(l.state) LIKE ? OR LOWER(l.title) LIKE ?)")
		pat := "%" + strings.ToLower(q.Text) + "%"
		args = append(args, pat, pat, pat, pat)
	}
	if q.City != "" {
		where = append(where, "LOWER(l.city) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.City)+"%")
	}
	if q.State != "" {
		where = append(where, "LOWER(l.state) = ?")
		args = append(args, strings.ToLower(q.State))
	}
	if q.Date != "" {
		where = append(where, "l.available_date = ?")
		args = append(args, q.Date)
	}

	return strings.Join(where, " AND "), args
}
