package contact

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/folio-labs/portfolio-backend/internal/storage/postgres"
)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, m *Message) error {
	const q = `
INSERT INTO contact_messages (id, name, email, subject, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at;
`
	err := r.db.QueryRowContext(ctx, q, m.ID, m.Name, m.Email, m.Subject, m.Message).Scan(&m.CreatedAt)
	return classify(err)
}

// List returns messages newest first, optionally only unread ones.
func (r *Repo) List(ctx context.Context, unreadOnly bool) ([]Message, error) {
	q := `
SELECT id, name, email, subject, message, is_read, created_at
FROM contact_messages`
	if unreadOnly {
		q += "\nWHERE NOT is_read"
	}
	q += "\nORDER BY created_at DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]Message, 0, 16)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (r *Repo) MarkRead(ctx context.Context, id string, read bool) (bool, error) {
	return r.exec(ctx, `UPDATE contact_messages SET is_read = $2 WHERE id = $1`, id, read)
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	return r.exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
}

func (r *Repo) exec(ctx context.Context, q string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, classify(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func classify(err error) error {
	if err != nil && postgres.IsTransient(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
