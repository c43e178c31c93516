package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"module/blogwithusers/internal/clients/newsapi"
	"module/blogwithusers/internal/dto"
	"module/blogwithusers/internal/models"
	"module/blogwithusers/internal/repo"
	"module/blogwithusers/internal/scraper"
	"module/blogwithusers/internal/services/posts"
	"module/blogwithusers/internal/services/topsearch"
	"module/blogwithusers/internal/utilities"

	"github.com/gin-gonic/gin"
)

const (
	PageSize = 20

	msgSearchFailed   = "Something went wrong, search again"
	msgAlreadyPosted  = "That article has already been imported"
	maxImportedImgURL = 500
)

type NewsSearcher interface {
	Search(ctx context.Context, query string) ([]newsapi.Article, error)
}

type SearchService struct {
	news        NewsSearcher
	topSearches *topsearch.TopSearchService
	postRepo    *repo.PostRepo
	postService *posts.PostService
	now         func() time.Time
}

func NewSearchService(news NewsSearcher, topSearches *topsearch.TopSearchService, postRepo *repo.PostRepo, postService *posts.PostService) *SearchService {
	return &SearchService{
		news:        news,
		topSearches: topSearches,
		postRepo:    postRepo,
		postService: postService,
		now:         time.Now,
	}
}

// pathSegment escapes s for a single path segment, '+' included: gin unescapes
// raw path values with query rules, where '+' reads as a space.
func pathSegment(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), "+", "%2B")
}

func SearchPath(query string) string {
	return "/search/" + pathSegment(query)
}

func PageTwoPath(query string) string {
	return SearchPath(query) + "/page-2"
}

func ImportPath(query string, title string) string {
	return "/import/" + pathSegment(query) + "/" + pathSegment(title)
}

// SubmitSearch handles the search form on the listing and results pages:
// it records the term and redirects to the first results page.
func (s *SearchService) SubmitSearch(ctx *gin.Context) {
	var request dto.SearchRequest
	if err := ctx.ShouldBind(&request); err != nil {
		slog.Warn("binding search form", "error", err)
	}
	request.Search = strings.TrimSpace(request.Search)

	if fieldErrs := utilities.ValidateForm(request); fieldErrs != nil {
		s.postService.RenderListing(ctx, http.StatusBadRequest, request, fieldErrs)
		return
	}

	if _, err := s.topSearches.Record(utilities.CurrentUser(ctx), request.Search); err != nil {
		// Counting is bookkeeping; the search itself still runs.
		slog.Error("recording search", "query", request.Search, "error", err)
	}
	ctx.Redirect(http.StatusFound, SearchPath(request.Search))
}

// fetch runs the news search, flashing and redirecting home on any failure.
func (s *SearchService) fetch(ctx *gin.Context, query string) ([]newsapi.Article, bool) {
	articles, err := s.news.Search(ctx.Request.Context(), query)
	if err != nil {
		slog.Warn("news search failed", "query", query, "error", err)
		utilities.AddFlash(ctx, msgSearchFailed)
		ctx.Redirect(http.StatusFound, "/")
		return nil, false
	}
	return articles, true
}

func (s *SearchService) SearchResults(ctx *gin.Context) {
	query := ctx.Param("query")
	articles, ok := s.fetch(ctx, query)
	if !ok {
		return
	}

	page := articles
	if len(page) > PageSize {
		page = page[:PageSize]
	}
	s.renderResults(ctx, query, page, 1, len(articles) > PageSize)
}

func (s *SearchService) SearchPageTwo(ctx *gin.Context) {
	query := ctx.Param("query")
	articles, ok := s.fetch(ctx, query)
	if !ok {
		return
	}

	var page []newsapi.Article
	if len(articles) > PageSize {
		page = articles[PageSize:]
	}
	s.renderResults(ctx, query, page, 2, false)
}

type resultView struct {
	newsapi.Article
	ImportPath string
}

func (s *SearchService) renderResults(ctx *gin.Context, query string, articles []newsapi.Article, page int, hasNext bool) {
	views := make([]resultView, len(articles))
	for i, article := range articles {
		views[i] = resultView{Article: article, ImportPath: ImportPath(query, article.Title)}
	}

	utilities.Render(ctx, http.StatusOK, "search.html", gin.H{
		"Query":       query,
		"Articles":    views,
		"Page":        page,
		"HasNext":     hasNext,
		"SearchPath":  SearchPath(query),
		"PageTwoPath": PageTwoPath(query),
		"SearchForm":  dto.SearchRequest{Search: query},
	})
}

// ImportArticle re-runs the search and turns the article whose title matches
// into a post. When nothing matches the handler writes no response body.
func (s *SearchService) ImportArticle(ctx *gin.Context) {
	query := ctx.Param("query")
	title := ctx.Param("title")

	articles, ok := s.fetch(ctx, query)
	if !ok {
		return
	}

	for _, article := range articles {
		if article.Title != title {
			continue
		}
		s.importArticle(ctx, article)
		return
	}

	// TODO: tell the admin the article has dropped out of the live results instead of replying with an empty page.
	slog.Warn("article to import not found in search results", "query", query, "title", title)
}

func (s *SearchService) importArticle(ctx *gin.Context, article newsapi.Article) {
	title := scraper.Truncate(strings.TrimSpace(article.Title), 250)

	taken, err := s.postRepo.TitleTaken(title, 0)
	if err != nil {
		slog.Error("checking post title", "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to import the article.")
		return
	}
	if taken {
		utilities.AddFlash(ctx, msgAlreadyPosted)
		ctx.Redirect(http.StatusFound, "/")
		return
	}

	imgURL := article.UrlToImage
	if len(imgURL) > maxImportedImgURL {
		imgURL = ""
	}

	post := models.Post{
		AuthorId: utilities.CurrentUser(ctx).Id,
		Title:    title,
		Subtitle: scraper.Truncate(scraper.PlainText(article.Description), 300),
		ImgUrl:   imgURL,
		Body:     utilities.ImportedPostBody(article.Url, article.Source.Name),
		Date:     utilities.PostDate(s.now()),
	}
	if err := s.postRepo.CreatePost(&post); err != nil {
		slog.Error("creating imported post", "title", title, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to import the article.")
		return
	}

	slog.Info("article imported", "post_id", post.Id, "source", article.Source.Name)
	ctx.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.Id))
}

func (s *SearchService) APITopSearches(ctx *gin.Context) {
	global, err := s.topSearches.TopGlobal()
	if err != nil {
		slog.Error("loading global top searches", "error", err)
		utilities.Response(ctx, http.StatusInternalServerError, false, nil, "Failed to get top searches")
		return
	}

	response := dto.TopSearchesResponse{Global: global}
	if user := utilities.CurrentUser(ctx); user != nil {
		response.User, err = s.topSearches.TopForUser(user.Id)
		if err != nil {
			slog.Error("loading user top searches", "user_id", user.Id, "error", err)
			utilities.Response(ctx, http.StatusInternalServerError, false, nil, "Failed to get top searches")
			return
		}
	}
	utilities.Response(ctx, http.StatusOK, true, response, "Top searches fetched successfully")
}
