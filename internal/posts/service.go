package posts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/folio-labs/portfolio-backend/internal/utils"
)

// Repository is the persistence contract of the post service.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Post, error)
	Get(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Create(ctx context.Context, p *Post) error
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, opts ListOptions) ([]Post, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrValidation)
	}
	opts.Tag = strings.TrimSpace(opts.Tag)
	return s.repo.List(ctx, opts)
}

// Get resolves a post by UUID or slug. Drafts are hidden unless
// includeDrafts is set.
func (s *Service) Get(ctx context.Context, idOrSlug string, includeDrafts bool) (*Post, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)

	var (
		p   *Post
		err error
	)
	if id, perr := uuid.Parse(idOrSlug); perr == nil {
		p, err = s.repo.Get(ctx, id.String())
	} else if utils.IsSlug(idOrSlug) {
		p, err = s.repo.GetBySlug(ctx, idOrSlug)
	} else {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !p.Published && !includeDrafts {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, in CreatePostInput) (*Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title required", ErrValidation)
	}
	slug, err := resolveSlug(in.Slug, title)
	if err != nil {
		return nil, err
	}

	p := &Post{
		ID:         uuid.New().String(),
		Title:      title,
		Slug:       slug,
		Excerpt:    strings.TrimSpace(in.Excerpt),
		Content:    in.Content,
		CoverImage: strings.TrimSpace(in.CoverImage),
		Tags:       normalizeTags(in.Tags),
	}
	s.setPublished(p, in.Published)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdatePostInput) (*Post, error) {
	pid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrNotFound
	}
	p, err := s.repo.Get(ctx, pid.String())
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
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
	if in.Excerpt != nil {
		p.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.CoverImage != nil {
		p.CoverImage = strings.TrimSpace(*in.CoverImage)
	}
	if in.Tags != nil {
		p.Tags = normalizeTags(*in.Tags)
	}
	if in.Published != nil {
		s.setPublished(p, *in.Published)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	pid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return false, nil
	}
	return s.repo.Delete(ctx, pid.String())
}

// setPublished keeps PublishedAt stable across repeated publishes.
func (s *Service) setPublished(p *Post, published bool) {
	p.Published = published
	switch {
	case !published:
		p.PublishedAt = nil
	case p.PublishedAt == nil:
		now := s.now().UTC()
		p.PublishedAt = &now
	}
}

func resolveSlug(raw, title string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		slug := utils.Slugify(title)
		if slug == "" {
			return "", fmt.Errorf("%w: cannot derive slug from title", ErrValidation)
		}
		return slug, nil
	}
	if len(raw) > utils.MaxSlugLen {
		return "", fmt.Errorf("%w: slug exceeds %d bytes", ErrValidation, utils.MaxSlugLen)
	}
	if !utils.IsSlug(raw) {
		return "", fmt.Errorf("%w: invalid slug %q", ErrValidation, raw)
	}
	return raw, nil
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping first-seen order.
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
