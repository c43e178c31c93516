package api

import (
	"time"

	"module/blogwithusers/internal/services/pages"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, container *Container) {
	middlewareService := container.MiddlewareService
	adminOnly := []gin.HandlerFunc{middlewareService.RequireLogin, middlewareService.RequireAdmin}

	site := router.Group("", middlewareService.SessionMiddleware)

	site.GET("/", container.PostService.ListPosts)
	site.POST("/", container.SearchService.SubmitSearch)
	site.GET("/about", pages.About)
	site.GET("/contact", container.ContactService.ContactPage)
	site.POST("/contact", container.ContactService.SendMessage)

	site.GET("/register", container.UserService.RegisterPage)
	site.POST("/register", container.UserService.RegisterUser)
	site.GET("/login", container.UserService.LoginPage)
	site.POST("/login", container.UserService.LoginUser)
	site.GET("/logout", container.UserService.LogoutUser)

	site.GET("/post/:id", container.PostService.ShowPost)
	site.POST("/post/:id", container.PostService.AddComment)

	admin := site.Group("", adminOnly...)
	admin.GET("/new-post", container.PostService.NewPostPage)
	admin.POST("/new-post", container.PostService.CreatePost)
	admin.GET("/edit-post/:id", container.PostService.EditPostPage)
	admin.POST("/edit-post/:id", container.PostService.EditPost)
	admin.GET("/delete/:id", container.PostService.DeletePost)
	admin.GET("/import/:query/:title", container.SearchService.ImportArticle)

	searchRoutes := site.Group("/search/:query")
	searchRoutes.GET("", container.SearchService.SearchResults)
	searchRoutes.POST("", container.SearchService.SubmitSearch)
	searchRoutes.GET("/page-2", container.SearchService.SearchPageTwo)
	searchRoutes.POST("/page-2", container.SearchService.SubmitSearch)

	apiRoutes := site.Group("/api", cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))
	apiRoutes.GET("/posts", container.PostService.APIListPosts)
	apiRoutes.GET("/posts/:id", container.PostService.APIGetPost)
	apiRoutes.GET("/top-searches", container.SearchService.APITopSearches)
}
