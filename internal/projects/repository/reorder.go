package repository

import (
	"context"
	"fmt"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

// Reorder applies every item in one transaction. All project rows are locked
// in id order first so concurrent batches serialise without deadlocking;
// the later commit wins.
//
// The transaction is detached from the caller's cancellation: once begun it
// always runs to commit or rollback, bounded by the repository timeout.
func (r *ProjectRepository) Reorder(ctx context.Context, items []domain.ReorderItem) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM projects ORDER BY id FOR UPDATE`)
	if err != nil {
		return classify(err)
	}
	existing := make(map[string]struct{}, len(items))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		existing[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return classify(err)
	}
	rows.Close()

	for _, it := range items {
		if _, ok := existing[it.ID]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, it.ID)
		}
	}
	// items carry no duplicate ids, so equal sizes means every project is named
	if len(items) != len(existing) {
		return fmt.Errorf("%w (got %d of %d)", domain.ErrIncompleteBatch, len(items), len(existing))
	}

	for _, it := range items {
		res, err := tx.ExecContext(ctx,
			`UPDATE projects SET display_order = $2, updated_at = now() WHERE id = $1`,
			it.ID, it.DisplayOrder,
		)
		if err != nil {
			return fmt.Errorf("update %s: %w", it.ID, classify(err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, it.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify(err)
	}
	return nil
}
