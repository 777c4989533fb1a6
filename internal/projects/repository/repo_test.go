package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

const (
	p1 = "11111111-1111-1111-1111-111111111111"
	p2 = "22222222-2222-2222-2222-222222222222"
	p3 = "33333333-3333-3333-3333-333333333333"
)

var projectRowColumns = []string{
	"id", "title", "slug", "overview", "description", "tech_stack", "images", "thumbnail",
	"live_url", "repo_url", "category", "featured", "display_order", "created_at", "updated_at",
}

func setupProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewProjectRepository(db, time.Second)
	return repo, mock, db
}

func projectRow(rows *sqlmock.Rows, id, slug string, order int) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "Title "+slug, slug, "overview", "", "{go,gin}", "{}", "",
		"", "", "web", false, order, now, now)
}

func lockedIDs(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}

func TestProjectRepository_List(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	t.Run("orders by display order with limit after sorting", func(t *testing.T) {
		rows := sqlmock.NewRows(projectRowColumns)
		projectRow(rows, p3, "robot", 0)
		projectRow(rows, p1, "site", 1)

		mock.ExpectQuery(`ORDER BY display_order ASC, id ASC\s+LIMIT \$1`).
			WithArgs(2).
			WillReturnRows(rows)

		items, err := repo.List(context.Background(), domain.ListOptions{OrderBy: domain.SortDisplayOrder, Limit: 2})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, p3, items[0].ID)
		assert.Equal(t, []string{"go", "gin"}, items[0].TechStack)
		assert.Equal(t, []string{}, items[0].Images)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("defaults to newest first and applies filters", func(t *testing.T) {
		featured := true
		mock.ExpectQuery(`WHERE category = \$1 AND featured = \$2\s+ORDER BY created_at DESC, id ASC`).
			WithArgs("web", true).
			WillReturnRows(sqlmock.NewRows(projectRowColumns))

		items, err := repo.List(context.Background(), domain.ListOptions{Category: "web", Featured: &featured})
		require.NoError(t, err)
		assert.Empty(t, items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection loss is surfaced as store unavailable", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, title`).WillReturnError(&pq.Error{Code: "08006"})

		_, err := repo.List(context.Background(), domain.ListOptions{})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_Get(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	t.Run("finds by slug", func(t *testing.T) {
		mock.ExpectQuery(`WHERE slug = \$1`).
			WithArgs("robot").
			WillReturnRows(projectRow(sqlmock.NewRows(projectRowColumns), p3, "robot", 4))

		p, err := repo.GetBySlug(context.Background(), "robot")
		require.NoError(t, err)
		assert.Equal(t, 4, p.DisplayOrder)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps no rows to not found", func(t *testing.T) {
		mock.ExpectQuery(`WHERE id = \$1`).
			WithArgs(p1).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), p1)
		assert.Equal(t, domain.ErrNotFound, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	t.Run("places new project after the current maximum", func(t *testing.T) {
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
			WithArgs(createLockKey).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(display_order\), -1\) \+ 1 FROM projects`).
			WithArgs(p1, "Site", "site", "", "", sqlmock.AnyArg(), sqlmock.AnyArg(), "", "", "", "", false).
			WillReturnRows(sqlmock.NewRows([]string{"display_order", "created_at", "updated_at"}).
				AddRow(3, now, now))
		mock.ExpectCommit()

		p := &domain.Project{ID: p1, Title: "Site", Slug: "site"}
		require.NoError(t, repo.Create(context.Background(), p))
		assert.Equal(t, 3, p.DisplayOrder)
		assert.False(t, p.CreatedAt.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate slug", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := repo.Create(context.Background(), &domain.Project{ID: p2, Title: "Site", Slug: "site"})
		assert.Equal(t, domain.ErrDuplicateSlug, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock failure rolls back without inserting", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnError(&pq.Error{Code: "57P01"})
		mock.ExpectRollback()

		err := repo.Create(context.Background(), &domain.Project{ID: p3, Title: "Site", Slug: "other"})
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_UpdateAndDelete(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	t.Run("update missing project", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE projects`).WillReturnError(sql.ErrNoRows)

		err := repo.Update(context.Background(), &domain.Project{ID: p1})
		assert.Equal(t, domain.ErrNotFound, err)
	})

	t.Run("delete reports whether a row was removed", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).
			WithArgs(p2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM projects WHERE id = \$1`).
			WithArgs(p3).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Delete(context.Background(), p2)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(context.Background(), p3)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Reorder(t *testing.T) {
	batch := []domain.ReorderItem{
		{ID: p3, DisplayOrder: 0},
		{ID: p1, DisplayOrder: 1},
		{ID: p2, DisplayOrder: 2},
	}

	t.Run("applies the whole batch in one transaction", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM projects ORDER BY id FOR UPDATE`).
			WillReturnRows(lockedIDs(p1, p2, p3))
		for _, it := range batch {
			mock.ExpectExec(`UPDATE projects SET display_order = \$2`).
				WithArgs(it.ID, it.DisplayOrder).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		require.NoError(t, repo.Reorder(context.Background(), batch))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fault after the first row rolls everything back", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM projects`).
			WillReturnRows(lockedIDs(p1, p2, p3))
		mock.ExpectExec(`UPDATE projects SET display_order`).
			WithArgs(p3, 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE projects SET display_order`).
			WithArgs(p1, 1).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := repo.Reorder(context.Background(), batch)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		// no commit expectation: a commit would fail ExpectationsWereMet
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown id rejects the batch before any write", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM projects`).
			WillReturnRows(lockedIDs(p1, p3))
		mock.ExpectRollback()

		err := repo.Reorder(context.Background(), batch)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), p2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("batch omitting a project is rejected", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM projects`).
			WillReturnRows(lockedIDs(p1, p2, p3, "44444444-4444-4444-4444-444444444444"))
		mock.ExpectRollback()

		err := repo.Reorder(context.Background(), batch)
		assert.ErrorIs(t, err, domain.ErrIncompleteBatch)
		assert.ErrorIs(t, err, domain.ErrValidation)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("serialization failure is retryable", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM projects`).
			WillReturnRows(lockedIDs(p1, p2, p3))
		mock.ExpectExec(`UPDATE projects SET display_order`).
			WillReturnError(&pq.Error{Code: "40001"})
		mock.ExpectRollback()

		err := repo.Reorder(context.Background(), batch)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled request still completes the transaction", func(t *testing.T) {
		repo, mock, db := setupProjectRepo(t)
		defer db.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM projects`).
			WillReturnRows(lockedIDs(p1, p2, p3))
		for _, it := range batch {
			mock.ExpectExec(`UPDATE projects SET display_order`).
				WithArgs(it.ID, it.DisplayOrder).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		require.NoError(t, repo.Reorder(ctx, batch))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
