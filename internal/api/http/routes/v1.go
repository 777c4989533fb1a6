package routes

import (
	"github.com/gin-gonic/gin"

	httpapi "github.com/folio-labs/portfolio-backend/internal/api/http"
	authhttp "github.com/folio-labs/portfolio-backend/internal/auth/http"
	chathttp "github.com/folio-labs/portfolio-backend/internal/chat/http"
	"github.com/folio-labs/portfolio-backend/internal/contact"
	"github.com/folio-labs/portfolio-backend/internal/media"
	"github.com/folio-labs/portfolio-backend/internal/posts"
	projectshttp "github.com/folio-labs/portfolio-backend/internal/projects/http"
)

// V1Deps carries the handlers mounted under /api/v1. Chat and Media are
// optional and skipped when nil.
type V1Deps struct {
	Version  string
	Projects *projectshttp.Handler
	Posts    *posts.Handler
	Contact  *contact.Handler
	Auth     *authhttp.Handler
	Chat     *chathttp.Handler
	Media    *media.Handler

	RequireAdmin gin.HandlerFunc
	ContactLimit gin.HandlerFunc
	ChatLimit    gin.HandlerFunc
	LoginLimit   gin.HandlerFunc
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	dep.Auth.Register(api.Group("/auth"), dep.RequireAdmin, dep.LoginLimit)
	dep.Projects.Register(api.Group("/projects"), dep.RequireAdmin)
	dep.Posts.Register(api, dep.RequireAdmin)
	dep.Contact.Register(api, dep.RequireAdmin, dep.ContactLimit)

	if dep.Chat != nil {
		dep.Chat.Register(api.Group("/chat"), dep.ChatLimit)
	}
	if dep.Media != nil {
		dep.Media.Register(api.Group("/uploads", dep.RequireAdmin))
	}

	api.GET("/admin/stats", dep.RequireAdmin, httpapi.StatsHandler(dep.Version))
}
