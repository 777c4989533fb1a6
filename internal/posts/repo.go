package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/folio-labs/portfolio-backend/internal/storage/postgres"
)

const postColumns = `id, title, slug, excerpt, content, cover_image, tags, published,
       published_at, created_at, updated_at`

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var (
		p           Post
		publishedAt sql.NullTime
	)
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage,
		pq.Array(&p.Tags), &p.Published, &publishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// List returns posts newest first. Published posts sort by publish time,
// drafts (admin listings only) by creation time.
func (r *Repo) List(ctx context.Context, opts ListOptions) ([]Post, error) {
	var (
		where []string
		args  []any
	)
	if !opts.IncludeDrafts {
		where = append(where, "published")
	}
	if opts.Tag != "" {
		args = append(args, opts.Tag)
		where = append(where, fmt.Sprintf("$%d = ANY(tags)", len(args)))
	}

	var q strings.Builder
	q.WriteString("SELECT " + postColumns + "\nFROM posts")
	if len(where) > 0 {
		q.WriteString("\nWHERE " + strings.Join(where, " AND "))
	}
	q.WriteString("\nORDER BY COALESCE(published_at, created_at) DESC, id ASC")
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&q, "\nLIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]Post, 0, 16)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Post, error) {
	return r.getBy(ctx, "id", id)
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *Repo) getBy(ctx context.Context, column, value string) (*Post, error) {
	q := "SELECT " + postColumns + "\nFROM posts\nWHERE " + column + " = $1"
	p, err := scanPost(r.db.QueryRowContext(ctx, q, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}
	return p, nil
}

func (r *Repo) Create(ctx context.Context, p *Post) error {
	const q = `
INSERT INTO posts (id, title, slug, excerpt, content, cover_image, tags, published, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage,
		pq.Array(p.Tags), p.Published, p.PublishedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return classify(err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, p *Post) error {
	const q = `
UPDATE posts
SET title = $2, slug = $3, excerpt = $4, content = $5, cover_image = $6,
    tags = $7, published = $8, published_at = $9, updated_at = now()
WHERE id = $1
RETURNING updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage,
		pq.Array(p.Tags), p.Published, p.PublishedAt,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if postgres.IsUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return classify(err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
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
	if postgres.IsTransient(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
