package api

import (
	"fmt"

	"module/blogwithusers/internal/clients/mailer"
	"module/blogwithusers/internal/clients/newsapi"
	"module/blogwithusers/internal/config"
	"module/blogwithusers/internal/db"
	"module/blogwithusers/internal/middleware"
	"module/blogwithusers/internal/repo"
	"module/blogwithusers/internal/services/contact"
	"module/blogwithusers/internal/services/posts"
	"module/blogwithusers/internal/services/search"
	"module/blogwithusers/internal/services/topsearch"
	"module/blogwithusers/internal/services/users"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Container struct {
	MiddlewareService *middleware.MiddlewareService
	UserService       *users.UserService
	PostService       *posts.PostService
	SearchService     *search.SearchService
	ContactService    *contact.ContactService
	UserRepo          *repo.UserRepo
}

// NewContainer connects to the database, migrates it and builds the outbound
// news and mail clients from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	database, err := db.ConnectDB(cfg.DatabaseURL, gormLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	if err := db.MigrateDB(database); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	httpClient, err := newsapi.NewHTTPClient(cfg.NewsProxyURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create news http client: %w", err)
	}
	newsClient := newsapi.NewNewsClient(httpClient, cfg.NewsAPIURL, cfg.NewsAPIKey)

	mailClient := mailer.NewMailer(mailer.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		To:       cfg.Mail.To,
	})

	return NewContainerWith(cfg.SecretKey, database, newsClient, mailClient), nil
}

// NewContainerWith wires the services around an already migrated database.
func NewContainerWith(secretKey string, database *gorm.DB, news search.NewsSearcher, notifier contact.Notifier) *Container {
	userRepo := repo.NewUserRepo(database)
	postRepo := repo.NewPostRepo(database)
	commentRepo := repo.NewCommentRepo(database)
	searchRepo := repo.NewSearchRepo(database)

	topSearchService := topsearch.NewTopSearchService(searchRepo)
	postService := posts.NewPostService(postRepo, commentRepo, topSearchService)

	return &Container{
		MiddlewareService: middleware.NewMiddlewareService(userRepo, secretKey),
		UserService:       users.NewUserService(userRepo, secretKey),
		PostService:       postService,
		SearchService:     search.NewSearchService(news, topSearchService, postRepo, postService),
		ContactService:    contact.NewContactService(notifier),
		UserRepo:          userRepo,
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}
