package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
	"github.com/folio-labs/portfolio-backend/internal/storage/postgres"
)

const defaultTxTimeout = 15 * time.Second

// createLockKey is the advisory lock that serialises display order
// assignment across concurrent creates.
const createLockKey int64 = 7316504201

const projectColumns = `id, title, slug, overview, description, tech_stack, images, thumbnail,
       live_url, repo_url, category, featured, display_order, created_at, updated_at`

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db        *sql.DB
	txTimeout time.Duration
}

// NewProjectRepository creates a new project repository. txTimeout bounds the
// reorder transaction; zero selects the default.
func NewProjectRepository(db *sql.DB, txTimeout time.Duration) *ProjectRepository {
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	return &ProjectRepository{db: db, txTimeout: txTimeout}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Overview, &p.Description,
		pq.Array(&p.TechStack), pq.Array(&p.Images), &p.Thumbnail,
		&p.LiveURL, &p.RepoURL, &p.Category, &p.Featured, &p.DisplayOrder,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

// List returns projects ordered per opts. The limit is applied after ordering.
func (r *ProjectRepository) List(ctx context.Context, opts domain.ListOptions) ([]domain.Project, error) {
	var (
		where []string
		args  []any
	)
	if opts.Category != "" {
		args = append(args, opts.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if opts.Featured != nil {
		args = append(args, *opts.Featured)
		where = append(where, fmt.Sprintf("featured = $%d", len(args)))
	}

	var q strings.Builder
	q.WriteString("SELECT " + projectColumns + "\nFROM projects")
	if len(where) > 0 {
		q.WriteString("\nWHERE " + strings.Join(where, " AND "))
	}
	switch opts.OrderBy {
	case domain.SortDisplayOrder:
		q.WriteString("\nORDER BY display_order ASC, id ASC")
	default:
		q.WriteString("\nORDER BY created_at DESC, id ASC")
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&q, "\nLIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
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

// Get returns the project with the given id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	return r.getBy(ctx, "id", id)
}

// GetBySlug returns the project with the given slug.
func (r *ProjectRepository) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *ProjectRepository) getBy(ctx context.Context, column, value string) (*domain.Project, error) {
	q := "SELECT " + projectColumns + "\nFROM projects\nWHERE " + column + " = $1"
	p, err := scanProject(r.db.QueryRowContext(ctx, q, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify(err)
	}
	return p, nil
}

// Create inserts p, placing it after every existing project. DisplayOrder,
// CreatedAt and UpdatedAt are filled in from the database. The max+1 read and
// the insert run under a transaction-scoped advisory lock, so concurrent
// creates never share a display order.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, createLockKey); err != nil {
		return classify(err)
	}

	const q = `
INSERT INTO projects (
  id, title, slug, overview, description, tech_stack, images, thumbnail,
  live_url, repo_url, category, featured, display_order
)
VALUES (
  $1, $2, $3, $4, $5, $6, $7, $8,
  $9, $10, $11, $12,
  (SELECT COALESCE(MAX(display_order), -1) + 1 FROM projects)
)
RETURNING display_order, created_at, updated_at;
`
	err = tx.QueryRowContext(ctx, q,
		p.ID, p.Title, p.Slug, p.Overview, p.Description,
		pq.Array(p.TechStack), pq.Array(p.Images), p.Thumbnail,
		p.LiveURL, p.RepoURL, p.Category, p.Featured,
	).Scan(&p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return domain.ErrDuplicateSlug
		}
		return classify(err)
	}
	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}

// Update writes every mutable column of p in a single statement.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	const q = `
UPDATE projects
SET title = $2, slug = $3, overview = $4, description = $5, tech_stack = $6,
    images = $7, thumbnail = $8, live_url = $9, repo_url = $10, category = $11,
    featured = $12, display_order = $13, updated_at = now()
WHERE id = $1
RETURNING updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		p.ID, p.Title, p.Slug, p.Overview, p.Description, pq.Array(p.TechStack),
		pq.Array(p.Images), p.Thumbnail, p.LiveURL, p.RepoURL, p.Category,
		p.Featured, p.DisplayOrder,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if postgres.IsUniqueViolation(err) {
			return domain.ErrDuplicateSlug
		}
		return classify(err)
	}
	return nil
}

// Delete removes a project. Remaining display orders are left untouched.
func (r *ProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, classify(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func classify(err error) error {
	if postgres.IsTransient(err) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}
