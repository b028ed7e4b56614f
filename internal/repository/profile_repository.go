package repository

import (
	"context"
	"database/sql"

	"github.com/jeremyha1/cherry/internal/model"
)

// ProfileRepo provides access to the 'profiles' table. Every user
// gets a row at registration; profile reads therefore never fall
// back to creating one.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// Create inserts an empty profile row for a freshly registered user.
func (r *ProfileRepo) Create(ctx context.Context, userID uint64, role string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO profiles (id, role) VALUES (?,?)",
		userID, role)
	return err
}

// GetByID fetches a profile by user id.
func (r *ProfileRepo) GetByID(ctx context.Context, userID uint64) (model.Profile, error) {
	var (
		p         model.Profile
		fullName  sql.NullString
		bio       sql.NullString
		age       sql.NullString
		interests sql.NullString
		linkedin  sql.NullString
		avatar    sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, full_name, role, bio, age, interests, linkedin_url, avatar_url, created_at, updated_at
		 FROM profiles WHERE id=? LIMIT 1`,
		userID).Scan(&p.ID, &fullName, &p.Role, &bio, &age, &interests, &linkedin, &avatar, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	p.FullName = fullName.String
	p.Bio = bio.String
	p.Age = age.String
	p.Interests = interests.String
	p.LinkedinURL = linkedin.String
	p.AvatarURL = avatar.String
	return p, nil
}

// NamesByIDs returns the display name for each of the given user ids.
// Missing rows are simply absent from the result; callers fall back
// to a placeholder name.
func (r *ProfileRepo) NamesByIDs(ctx context.Context, ids []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := "SELECT id, COALESCE(full_name, '') FROM profiles WHERE id IN ("
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   uint64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

// Update overwrites the editable fields of a profile.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE profiles
		 SET full_name=?, bio=?, age=?, interests=?, linkedin_url=?, avatar_url=?, updated_at=NOW()
		 WHERE id=?`,
		nullIfEmpty(p.FullName), nullIfEmpty(p.Bio), nullIfEmpty(p.Age),
		nullIfEmpty(p.Interests), nullIfEmpty(p.LinkedinURL), nullIfEmpty(p.AvatarURL), p.ID)
	return err
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
