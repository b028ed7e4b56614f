package repository

import (
	"context"
	"database/sql"

	"github.com/jeremyha1/cherry/internal/model"
)

// MessageRepo provides access to chat messages. Participant checks
// stay in the handlers; this layer trusts its callers with the
// request ids they pass in.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

const messageCols = `id, request_id, sender_id, body, created_at`

// querier abstracts *sql.DB and *sql.Tx for reads that must also run
// inside the backfill transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func listMessages(ctx context.Context, q querier, requestID uint64) ([]model.Message, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+messageCols+` FROM messages
		 WHERE request_id = ?
		 ORDER BY created_at ASC, id ASC`,
		requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.RequestID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func listMessagesTx(ctx context.Context, tx *sql.Tx, requestID uint64) ([]model.Message, error) {
	return listMessages(ctx, tx, requestID)
}

// ListByRequest returns the thread for one request in display order,
// oldest first.
func (r *MessageRepo) ListByRequest(ctx context.Context, requestID uint64) ([]model.Message, error) {
	return listMessages(ctx, r.db, requestID)
}

// ListForRequests returns every message across the given threads in
// one query, for unread derivation over a user's whole booking set.
func (r *MessageRepo) ListForRequests(ctx context.Context, requestIDs []uint64) ([]model.Message, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + messageCols + ` FROM messages WHERE request_id IN (`
	args := make([]interface{}, 0, len(requestIDs))
	for i, id := range requestIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ") ORDER BY created_at ASC, id ASC"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.RequestID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create appends a message to a thread. On success the message's ID
// and CreatedAt are populated from the database.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (request_id, sender_id, body) VALUES (?,?,?)",
		m.RequestID, m.SenderID, m.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM messages WHERE id = ?", m.ID).Scan(&m.CreatedAt)
}
