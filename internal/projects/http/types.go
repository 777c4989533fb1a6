package http

import (
	"context"

	"github.com/folio-labs/portfolio-backend/internal/projects/domain"
)

// Service is the subset of the project service the handlers call.
type Service interface {
	List(ctx context.Context, opts domain.ListOptions) ([]domain.Project, error)
	Get(ctx context.Context, idOrSlug string) (*domain.Project, error)
	Create(ctx context.Context, in domain.CreateProjectInput) (*domain.Project, error)
	Update(ctx context.Context, id string, in domain.UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, id string) (bool, error)
	Reorder(ctx context.Context, items []domain.ReorderItem) (int, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	Title       string   `json:"title" binding:"required"`
	Slug        string   `json:"slug"`
	Overview    string   `json:"overview"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	Images      []string `json:"images"`
	Thumbnail   string   `json:"thumbnail"`
	LiveURL     string   `json:"liveUrl"`
	RepoURL     string   `json:"repoUrl"`
	Category    string   `json:"category"`
	Featured    bool     `json:"featured"`
}

func (r createReq) toInput() domain.CreateProjectInput {
	return domain.CreateProjectInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Overview:    r.Overview,
		Description: r.Description,
		TechStack:   r.TechStack,
		Images:      r.Images,
		Thumbnail:   r.Thumbnail,
		LiveURL:     r.LiveURL,
		RepoURL:     r.RepoURL,
		Category:    r.Category,
		Featured:    r.Featured,
	}
}

type updateReq struct {
	Title        *string   `json:"title"`
	Slug         *string   `json:"slug"`
	Overview     *string   `json:"overview"`
	Description  *string   `json:"description"`
	TechStack    *[]string `json:"techStack"`
	Images       *[]string `json:"images"`
	Thumbnail    *string   `json:"thumbnail"`
	LiveURL      *string   `json:"liveUrl"`
	RepoURL      *string   `json:"repoUrl"`
	Category     *string   `json:"category"`
	Featured     *bool     `json:"featured"`
	DisplayOrder *int      `json:"displayOrder"`
}

func (r updateReq) toInput() domain.UpdateProjectInput {
	return domain.UpdateProjectInput{
		Title:        r.Title,
		Slug:         r.Slug,
		Overview:     r.Overview,
		Description:  r.Description,
		TechStack:    r.TechStack,
		Images:       r.Images,
		Thumbnail:    r.Thumbnail,
		LiveURL:      r.LiveURL,
		RepoURL:      r.RepoURL,
		Category:     r.Category,
		Featured:     r.Featured,
		DisplayOrder: r.DisplayOrder,
	}
}

// displayOrder is a pointer so a missing field fails binding instead of
// silently becoming 0.
type reorderItemReq struct {
	ID           string `json:"id" binding:"required"`
	DisplayOrder *int   `json:"displayOrder" binding:"required"`
}

type reorderReq struct {
	Projects []reorderItemReq `json:"projects" binding:"required,dive"`
}

func (r reorderReq) toItems() []domain.ReorderItem {
	items := make([]domain.ReorderItem, len(r.Projects))
	for i, p := range r.Projects {
		items[i] = domain.ReorderItem{ID: p.ID, DisplayOrder: *p.DisplayOrder}
	}
	return items
}
