package api

import (
	"fmt"
	"net/http"

	"module/blogwithusers/internal/middleware"
	"module/blogwithusers/internal/services/pages"
	"module/blogwithusers/web"

	"github.com/gin-gonic/gin"
)

// NewServer builds the gin engine with templates, static assets and every
// route registered.
func NewServer(container *Container) (*gin.Engine, error) {
	server := gin.New()
	server.Use(gin.Recovery(), middleware.RequestLogger)

	// Search terms and article titles travel as escaped path segments.
	server.UseRawPath = true
	server.UnescapePathValues = true

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	server.SetHTMLTemplate(templates)
	server.StaticFS("/static", http.FS(web.Static()))

	RegisterRoutes(&server.RouterGroup, container)
	server.NoRoute(container.MiddlewareService.SessionMiddleware, pages.NotFound)

	return server, nil
}
