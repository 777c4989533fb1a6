package orderlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrBusy       = errors.New("orderlist: save in progress")
	ErrOutOfRange = errors.New("orderlist: index out of range")
)

// Saver submits a full reorder batch in one call.
type Saver interface {
	SaveOrder(ctx context.Context, positions []Position) error
}

// List tracks the current order against the last saved baseline. It is safe
// for concurrent use.
type List struct {
	mu       sync.Mutex
	saver    Saver
	current  Order
	baseline Order
	busy     bool
	gen      uint64 // bumped by Reset; saves from an older generation are dropped
}

func New(items []Item, saver Saver) *List {
	o := NewOrder(items)
	return &List{saver: saver, current: o, baseline: o}
}

func (l *List) Current() Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Dirty reports whether the current order differs from the baseline.
func (l *List) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.current.Equal(l.baseline)
}

func (l *List) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

func (l *List) Move(src, dst int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return ErrBusy
	}
	next, err := l.current.Move(src, dst)
	if err != nil {
		return err
	}
	l.current = next
	return nil
}

// Save submits the current order when it differs from the baseline. On
// failure the local order is kept and the list stays dirty.
func (l *List) Save(ctx context.Context) error {
	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return ErrBusy
	}
	if l.current.Equal(l.baseline) {
		l.mu.Unlock()
		return nil
	}
	snapshot, gen := l.current, l.gen
	l.busy = true
	l.mu.Unlock()

	err := l.saver.SaveOrder(ctx, snapshot.Positions())

	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy = false
	if err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	if gen == l.gen {
		l.baseline = snapshot
	}
	return nil
}

// Reset replaces both the current order and the baseline with items,
// discarding unsaved moves.
func (l *List) Reset(items []Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o := NewOrder(items)
	l.current, l.baseline = o, o
	l.gen++
}
