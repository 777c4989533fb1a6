// Package projecttest provides an in-memory project store for tests.
package projecttest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

// ErrInjected is returned by Reorder when a fault has been armed.
var ErrInjected = errors.New("injected reorder fault")

// Store keeps projects in memory and applies reorders copy-on-write, so a
// failed batch never leaves partial state behind.
type Store struct {
	mu        sync.Mutex
	projects  map[string]domain.Project
	clock     time.Time
	failAfter int // fault after this many row updates; <0 disarmed
}

func NewStore() *Store {
	return &Store{
		projects:  make(map[string]domain.Project),
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		failAfter: -1,
	}
}

// Seed stores p as-is, stamping timestamps if unset.
func (s *Store) Seed(p domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.tick()
		p.UpdatedAt = p.CreatedAt
	}
	s.projects[p.ID] = p
}

// FailReorderAfter arms a fault that fires after n row updates of the next
// Reorder call.
func (s *Store) FailReorderAfter(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
}

// Orders returns the stored display order per project id.
func (s *Store) Orders() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.projects))
	for id, p := range s.projects {
		out[id] = p.DisplayOrder
	}
	return out
}

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *Store) List(_ context.Context, opts domain.ListOptions) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if opts.Featured != nil && p.Featured != *opts.Featured {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if opts.OrderBy == domain.SortDisplayOrder {
			if a.DisplayOrder != b.DisplayOrder {
				return a.DisplayOrder < b.DisplayOrder
			}
			return a.ID < b.ID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetBySlug(_ context.Context, slug string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) Create(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := 0
	for _, existing := range s.projects {
		if existing.Slug == p.Slug {
			return domain.ErrDuplicateSlug
		}
		if existing.DisplayOrder+1 > next {
			next = existing.DisplayOrder + 1
		}
	}
	p.DisplayOrder = next
	p.CreatedAt = s.tick()
	p.UpdatedAt = p.CreatedAt
	s.projects[p.ID] = *p
	return nil
}

func (s *Store) Update(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range s.projects {
		if id != p.ID && existing.Slug == p.Slug {
			return domain.ErrDuplicateSlug
		}
	}
	p.UpdatedAt = s.tick()
	s.projects[p.ID] = *p
	return nil
}

func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	delete(s.projects, id)
	return true, nil
}

func (s *Store) Reorder(_ context.Context, items []domain.ReorderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range items {
		if _, ok := s.projects[it.ID]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, it.ID)
		}
	}
	if len(items) != len(s.projects) {
		return fmt.Errorf("%w (got %d of %d)", domain.ErrIncompleteBatch, len(items), len(s.projects))
	}

	working := make(map[string]domain.Project, len(s.projects))
	for id, p := range s.projects {
		working[id] = p
	}

	failAfter := s.failAfter
	s.failAfter = -1
	for i, it := range items {
		if failAfter >= 0 && i == failAfter {
			return ErrInjected
		}
		p := working[it.ID]
		p.DisplayOrder = it.DisplayOrder
		working[it.ID] = p
	}

	s.projects = working
	return nil
}
