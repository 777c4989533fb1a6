package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

// ValidateBatch checks a reorder batch without touching storage and returns
// a copy with canonical ids. Rejected: empty batches, batches larger than
// limit (when limit > 0), malformed or repeated ids, negative or repeated
// display orders.
func ValidateBatch(items []domain.ReorderItem, limit int) ([]domain.ReorderItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: reorder batch is empty", domain.ErrValidation)
	}
	if limit > 0 && len(items) > limit {
		return nil, fmt.Errorf("%w: reorder batch of %d exceeds limit of %d", domain.ErrValidation, len(items), limit)
	}

	out := make([]domain.ReorderItem, len(items))
	seenIDs := make(map[string]int, len(items))
	seenOrders := make(map[int]string, len(items))

	for i, it := range items {
		id, err := uuid.Parse(strings.TrimSpace(it.ID))
		if err != nil {
			return nil, fmt.Errorf("%w: item %d has invalid id %q", domain.ErrValidation, i, it.ID)
		}
		canonical := id.String()
		if prev, ok := seenIDs[canonical]; ok {
			return nil, fmt.Errorf("%w: id %s appears at items %d and %d", domain.ErrValidation, canonical, prev, i)
		}
		if it.DisplayOrder < 0 {
			return nil, fmt.Errorf("%w: item %d has negative displayOrder %d", domain.ErrValidation, i, it.DisplayOrder)
		}
		if other, ok := seenOrders[it.DisplayOrder]; ok {
			return nil, fmt.Errorf("%w: displayOrder %d assigned to both %s and %s", domain.ErrValidation, it.DisplayOrder, other, canonical)
		}

		seenIDs[canonical] = i
		seenOrders[it.DisplayOrder] = canonical
		out[i] = domain.ReorderItem{ID: canonical, DisplayOrder: it.DisplayOrder}
	}
	return out, nil
}
