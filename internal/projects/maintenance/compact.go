// Package maintenance holds offline jobs over the projects table.
package maintenance

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
)

// Row is the ordering state of one project.
type Row struct {
	ID           string
	DisplayOrder int
}

// Change moves one project to a new display order.
type Change struct {
	ID   string
	From int
	To   int
}

// Plan renumbers rows densely from 0, keeping their relative order
// (display order, then id). Rows already at their target are omitted.
func Plan(rows []Row) []Change {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].DisplayOrder != sorted[j].DisplayOrder {
			return sorted[i].DisplayOrder < sorted[j].DisplayOrder
		}
		return sorted[i].ID < sorted[j].ID
	})

	var changes []Change
	for i, r := range sorted {
		if r.DisplayOrder != i {
			changes = append(changes, Change{ID: r.ID, From: r.DisplayOrder, To: i})
		}
	}
	return changes
}

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Compactor struct {
	db TxBeginner
}

func NewCompactor(db TxBeginner) *Compactor {
	return &Compactor{db: db}
}

// Compact closes gaps in display_order inside one transaction. When dryRun
// is set the plan is computed and the transaction rolled back.
func (c *Compactor) Compact(ctx context.Context, dryRun bool) ([]Change, error) {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `SELECT id::text, display_order FROM projects ORDER BY display_order, id FOR UPDATE`)
	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	current, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Row, error) {
		var r Row
		err := row.Scan(&r.ID, &r.DisplayOrder)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan projects: %w", err)
	}

	changes := Plan(current)
	if dryRun || len(changes) == 0 {
		return changes, nil
	}

	batch := &pgx.Batch{}
	for _, ch := range changes {
		batch.Queue(`UPDATE projects SET display_order = $1, updated_at = now() WHERE id = $2`, ch.To, ch.ID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("apply batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return changes, nil
}
