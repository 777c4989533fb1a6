package domain

import "time"

// Project is a portfolio entry. DisplayOrder alone decides its position in
// ordered listings; values need not be contiguous.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Overview     string    `json:"overview"`
	Description  string    `json:"description"`
	TechStack    []string  `json:"techStack"`
	Images       []string  `json:"images"`
	Thumbnail    string    `json:"thumbnail"`
	LiveURL      string    `json:"liveUrl"`
	RepoURL      string    `json:"repoUrl"`
	Category     string    `json:"category"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SortMode selects the ordering of List results.
type SortMode string

const (
	SortCreatedAt    SortMode = "createdAt"
	SortDisplayOrder SortMode = "displayOrder"
)

// ListOptions filters and orders a project listing. Limit <= 0 means no limit.
type ListOptions struct {
	OrderBy  SortMode
	Limit    int
	Category string
	Featured *bool
}

// CreateProjectInput carries the fields accepted when creating a project.
type CreateProjectInput struct {
	Title       string
	Slug        string
	Overview    string
	Description string
	TechStack   []string
	Images      []string
	Thumbnail   string
	LiveURL     string
	RepoURL     string
	Category    string
	Featured    bool
}

// UpdateProjectInput is a partial update; nil fields are left unchanged.
type UpdateProjectInput struct {
	Title        *string
	Slug         *string
	Overview     *string
	Description  *string
	TechStack    *[]string
	Images       *[]string
	Thumbnail    *string
	LiveURL      *string
	RepoURL      *string
	Category     *string
	Featured     *bool
	DisplayOrder *int
}

// ReorderItem assigns a new display order to one project within a batch.
type ReorderItem struct {
	ID           string `json:"id"`
	DisplayOrder int    `json:"displayOrder"`
}
