// Package orderlist keeps a locally rearranged copy of the project order and
// submits it as one batch.
package orderlist

import (
	"fmt"
	"slices"
)

// Item is the project summary needed to render and reorder a row.
type Item struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Position is one entry of a reorder batch.
type Position struct {
	ID           string `json:"id"`
	DisplayOrder int    `json:"displayOrder"`
}

// Order is an immutable sequence of items. Operations return a new Order.
type Order struct {
	items []Item
}

// NewOrder copies items into a new Order.
func NewOrder(items []Item) Order {
	return Order{items: slices.Clone(items)}
}

func (o Order) Len() int { return len(o.items) }

func (o Order) At(i int) Item { return o.items[i] }

// Items returns a copy of the sequence.
func (o Order) Items() []Item { return slices.Clone(o.items) }

func (o Order) IDs() []string {
	ids := make([]string, len(o.items))
	for i, it := range o.items {
		ids[i] = it.ID
	}
	return ids
}

// Equal reports whether both orders hold the same items in the same sequence.
func (o Order) Equal(other Order) bool {
	return slices.Equal(o.items, other.items)
}

// Move removes the item at src and reinserts it at dst, shifting the items
// in between by one.
func (o Order) Move(src, dst int) (Order, error) {
	n := len(o.items)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return o, fmt.Errorf("%w: move %d -> %d in list of %d", ErrOutOfRange, src, dst, n)
	}
	if src == dst {
		return o, nil
	}

	out := make([]Item, 0, n)
	moved := o.items[src]
	for i, it := range o.items {
		if i != src {
			out = append(out, it)
		}
	}
	out = slices.Insert(out, dst, moved)
	return Order{items: out}, nil
}

// Positions numbers the items densely from zero in sequence order.
func (o Order) Positions() []Position {
	out := make([]Position, len(o.items))
	for i, it := range o.items {
		out[i] = Position{ID: it.ID, DisplayOrder: i}
	}
	return out
}
