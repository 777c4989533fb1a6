package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/logging"
	"github.com/folio-labs/portfolio-backend/internal/metrics"
	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
	"github.com/folio-labs/portfolio-backend/internal/utils"
)

// Repository is the persistence contract the project service depends on.
type Repository interface {
	List(ctx context.Context, opts domain.ListOptions) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) (bool, error)
	Reorder(ctx context.Context, items []domain.ReorderItem) error
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo     Repository
	maxBatch int
}

// NewProjectService creates a new project service. maxBatch caps the size
// of a reorder batch.
func NewProjectService(repo Repository, maxBatch int) *ProjectService {
	return &ProjectService{
		repo:     repo,
		maxBatch: maxBatch,
	}
}

// List returns projects ordered and truncated per opts.
func (s *ProjectService) List(ctx context.Context, opts domain.ListOptions) ([]domain.Project, error) {
	switch opts.OrderBy {
	case "", domain.SortCreatedAt, domain.SortDisplayOrder:
	default:
		return nil, fmt.Errorf("%w: unknown orderBy %q", domain.ErrValidation, opts.OrderBy)
	}
	if opts.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrValidation)
	}
	return s.repo.List(ctx, opts)
}

// Get resolves a project by UUID, falling back to slug lookup.
func (s *ProjectService) Get(ctx context.Context, idOrSlug string) (*domain.Project, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.repo.Get(ctx, id.String())
	}
	if !utils.IsSlug(idOrSlug) {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetBySlug(ctx, idOrSlug)
}

// Create validates in and stores a new project after all existing ones.
func (s *ProjectService) Create(ctx context.Context, in domain.CreateProjectInput) (*domain.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", domain.ErrValidation)
	}
	slug, err := resolveSlug(in.Slug, title)
	if err != nil {
		return nil, err
	}

	p := &domain.Project{
		ID:          uuid.New().String(),
		Title:       title,
		Slug:        slug,
		Overview:    strings.TrimSpace(in.Overview),
		Description: in.Description,
		TechStack:   cleanList(in.TechStack),
		Images:      cleanList(in.Images),
		Thumbnail:   strings.TrimSpace(in.Thumbnail),
		LiveURL:     strings.TrimSpace(in.LiveURL),
		RepoURL:     strings.TrimSpace(in.RepoURL),
		Category:    strings.TrimSpace(in.Category),
		Featured:    in.Featured,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("project created",
		zap.String("project_id", p.ID), zap.Int("display_order", p.DisplayOrder))
	return p, nil
}

// Update applies a partial update. Setting DisplayOrder here is a plain
// single-row write, outside the batch reorder guarantees.
func (s *ProjectService) Update(ctx context.Context, id string, in domain.UpdateProjectInput) (*domain.Project, error) {
	pid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}

	p, err := s.repo.Get(ctx, pid.String())
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		p.Title = title
	}
	if in.Slug != nil {
		slug, err := resolveSlug(*in.Slug, p.Title)
		if err != nil {
			return nil, err
		}
		p.Slug = slug
	}
	if in.Overview != nil {
		p.Overview = strings.TrimSpace(*in.Overview)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.TechStack != nil {
		p.TechStack = cleanList(*in.TechStack)
	}
	if in.Images != nil {
		p.Images = cleanList(*in.Images)
	}
	if in.Thumbnail != nil {
		p.Thumbnail = strings.TrimSpace(*in.Thumbnail)
	}
	if in.LiveURL != nil {
		p.LiveURL = strings.TrimSpace(*in.LiveURL)
	}
	if in.RepoURL != nil {
		p.RepoURL = strings.TrimSpace(*in.RepoURL)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.DisplayOrder != nil {
		if *in.DisplayOrder < 0 {
			return nil, fmt.Errorf("%w: displayOrder must be >= 0", domain.ErrValidation)
		}
		p.DisplayOrder = *in.DisplayOrder
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project without renumbering the others.
func (s *ProjectService) Delete(ctx context.Context, id string) (bool, error) {
	pid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return false, nil
	}
	return s.repo.Delete(ctx, pid.String())
}

// Reorder validates a client-submitted order and applies it atomically.
// It returns the number of projects updated.
func (s *ProjectService) Reorder(ctx context.Context, items []domain.ReorderItem) (int, error) {
	batch, err := ValidateBatch(items, s.maxBatch)
	if err != nil {
		metrics.RecordReorder(false)
		return 0, err
	}

	if err := s.repo.Reorder(ctx, batch); err != nil {
		metrics.RecordReorder(false)
		logging.FromContext(ctx).Warn("reorder rejected",
			zap.Int("batch_size", len(batch)), zap.Error(err))
		return 0, err
	}

	metrics.RecordReorder(true)
	logging.FromContext(ctx).Info("projects reordered", zap.Int("batch_size", len(batch)))
	return len(batch), nil
}

func resolveSlug(raw, title string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		slug := utils.Slugify(title)
		if slug == "" {
			return "", fmt.Errorf("%w: cannot derive slug from title", domain.ErrValidation)
		}
		return slug, nil
	}
	if len(raw) > utils.MaxSlugLen {
		return "", fmt.Errorf("%w: slug exceeds %d bytes", domain.ErrValidation, utils.MaxSlugLen)
	}
	if !utils.IsSlug(raw) {
		return "", fmt.Errorf("%w: slug %q must be lowercase words joined by hyphens", domain.ErrValidation, raw)
	}
	return raw, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
