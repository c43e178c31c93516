package pages

import (
	"net/http"

	"module/blogwithusers/internal/utilities"

	"github.com/gin-gonic/gin"
)

func About(ctx *gin.Context) {
	utilities.Render(ctx, http.StatusOK, "about.html", nil)
}

func NotFound(ctx *gin.Context) {
	utilities.RenderError(ctx, http.StatusNotFound, "Page not found.")
}
