package posts

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("post not found")
	ErrValidation       = errors.New("invalid post request")
	ErrDuplicateSlug    = errors.New("post slug already exists")
	ErrStoreUnavailable = errors.New("post store unavailable")
)

// Post is a blog entry. PublishedAt is set the first time the post is
// published and cleared when it is unpublished.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage"`
	Tags        []string   `json:"tags"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListOptions filters a post listing. Drafts are only returned when
// IncludeDrafts is set.
type ListOptions struct {
	Limit         int
	Tag           string
	IncludeDrafts bool
}

type CreatePostInput struct {
	Title      string   `json:"title" binding:"required,max=200"`
	Slug       string   `json:"slug" binding:"max=80"`
	Excerpt    string   `json:"excerpt" binding:"max=500"`
	Content    string   `json:"content"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

// UpdatePostInput is a partial update; nil fields are left unchanged.
type UpdatePostInput struct {
	Title      *string   `json:"title" binding:"omitempty,max=200"`
	Slug       *string   `json:"slug" binding:"omitempty,max=80"`
	Excerpt    *string   `json:"excerpt" binding:"omitempty,max=500"`
	Content    *string   `json:"content"`
	CoverImage *string   `json:"coverImage"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
}
