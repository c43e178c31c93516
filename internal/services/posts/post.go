package posts

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"module/blogwithusers/internal/dto"
	"module/blogwithusers/internal/models"
	"module/blogwithusers/internal/repo"
	"module/blogwithusers/internal/services/topsearch"
	"module/blogwithusers/internal/utilities"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	msgLoginToComment = "Please login or register an account with us to be able to comment"
	msgCommentTooLong = "Comments are limited to 350 characters"
	msgDuplicateTitle = "A post with that title already exists"
	msgPostNotFound   = "That post does not exist."
	gravatarSize      = 100
)

type PostService struct {
	postRepo    *repo.PostRepo
	commentRepo *repo.CommentRepo
	topSearches *topsearch.TopSearchService
	now         func() time.Time
}

func NewPostService(postRepo *repo.PostRepo, commentRepo *repo.CommentRepo, topSearches *topsearch.TopSearchService) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		topSearches: topSearches,
		now:         time.Now,
	}
}

func parsePostId(ctx *gin.Context) (int64, bool) {
	postId, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || postId <= 0 {
		return 0, false
	}
	return postId, true
}

// loadPost resolves the :id param, rendering 404 or 500 itself on failure.
func (s *PostService) loadPost(ctx *gin.Context) (*models.Post, bool) {
	postId, ok := parsePostId(ctx)
	if !ok {
		utilities.RenderError(ctx, http.StatusNotFound, msgPostNotFound)
		return nil, false
	}
	post, err := s.postRepo.GetPostById(postId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RenderError(ctx, http.StatusNotFound, msgPostNotFound)
			return nil, false
		}
		slog.Error("fetching post", "post_id", postId, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to load the post.")
		return nil, false
	}
	return post, true
}

func (s *PostService) ListPosts(ctx *gin.Context) {
	s.RenderListing(ctx, http.StatusOK, dto.SearchRequest{}, nil)
}

// RenderListing is shared with the search form handler, which re-renders the
// listing when its form fails validation.
func (s *PostService) RenderListing(ctx *gin.Context, status int, form dto.SearchRequest, fieldErrs map[string]string) {
	posts, err := s.postRepo.GetPosts()
	if err != nil {
		slog.Error("listing posts", "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to load posts.")
		return
	}

	globalTop, err := s.topSearches.TopGlobal()
	if err != nil {
		slog.Error("loading global top searches", "error", err)
	}

	data := gin.H{
		"Posts":      posts,
		"SearchForm": form,
		"Errors":     fieldErrs,
		"GlobalTop":  globalTop,
	}
	if user := utilities.CurrentUser(ctx); user != nil {
		userTop, err := s.topSearches.TopForUser(user.Id)
		if err != nil {
			slog.Error("loading user top searches", "user_id", user.Id, "error", err)
		}
		data["UserTop"] = userTop
	}

	utilities.Render(ctx, status, "index.html", data)
}

func (s *PostService) ShowPost(ctx *gin.Context) {
	post, ok := s.loadPost(ctx)
	if !ok {
		return
	}
	s.renderPost(ctx, http.StatusOK, post, dto.CommentRequest{}, nil)
}

func (s *PostService) renderPost(ctx *gin.Context, status int, post *models.Post, form dto.CommentRequest, fieldErrs map[string]string) {
	comments, err := s.commentRepo.GetCommentsByPost(post.Id)
	if err != nil {
		slog.Error("fetching comments", "post_id", post.Id, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to load comments.")
		return
	}
	commentCount, err := s.commentRepo.CountByPost(post.Id)
	if err != nil {
		slog.Error("counting comments", "post_id", post.Id, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to load comments.")
		return
	}

	utilities.Render(ctx, status, "post.html", gin.H{
		"Post":         post,
		"Comments":     comments,
		"CommentCount": commentCount,
		"CommentForm":  form,
		"Errors":       fieldErrs,
		"MaxComment":   models.MaxCommentLength,
	})
}

func (s *PostService) AddComment(ctx *gin.Context) {
	post, ok := s.loadPost(ctx)
	if !ok {
		return
	}
	postPath := fmt.Sprintf("/post/%d", post.Id)

	user := utilities.CurrentUser(ctx)
	if user == nil {
		utilities.AddFlash(ctx, msgLoginToComment)
		ctx.Redirect(http.StatusFound, "/register")
		return
	}

	var request dto.CommentRequest
	if err := ctx.ShouldBind(&request); err != nil {
		slog.Warn("binding comment form", "error", err)
	}
	request.Comment = strings.TrimSpace(request.Comment)

	if fieldErrs := utilities.ValidateForm(request); fieldErrs != nil {
		s.renderPost(ctx, http.StatusBadRequest, post, request, fieldErrs)
		return
	}
	if utf8.RuneCountInString(request.Comment) > models.MaxCommentLength {
		utilities.AddFlash(ctx, msgCommentTooLong)
		ctx.Redirect(http.StatusFound, postPath)
		return
	}

	comment := models.Comment{
		CommenterId: user.Id,
		PostId:      post.Id,
		Text:        request.Comment,
	}
	if err := s.commentRepo.CreateComment(&comment); err != nil {
		slog.Error("creating comment", "post_id", post.Id, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to save your comment.")
		return
	}
	ctx.Redirect(http.StatusFound, postPath)
}

func (s *PostService) NewPostPage(ctx *gin.Context) {
	utilities.Render(ctx, http.StatusOK, "make-post.html", gin.H{"Form": dto.CreatePostRequest{}})
}

func bindPostForm(ctx *gin.Context) dto.CreatePostRequest {
	var request dto.CreatePostRequest
	if err := ctx.ShouldBind(&request); err != nil {
		slog.Warn("binding post form", "error", err)
	}
	request.Title = strings.TrimSpace(request.Title)
	request.Subtitle = strings.TrimSpace(request.Subtitle)
	request.ImgUrl = strings.TrimSpace(request.ImgUrl)
	return request
}

func (s *PostService) CreatePost(ctx *gin.Context) {
	request := bindPostForm(ctx)
	if fieldErrs := utilities.ValidateForm(request); fieldErrs != nil {
		utilities.Render(ctx, http.StatusBadRequest, "make-post.html", gin.H{"Form": request, "Errors": fieldErrs})
		return
	}

	taken, err := s.postRepo.TitleTaken(request.Title, 0)
	if err != nil {
		slog.Error("checking post title", "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to create the post.")
		return
	}
	if taken {
		utilities.AddFlash(ctx, msgDuplicateTitle)
		ctx.Redirect(http.StatusFound, "/new-post")
		return
	}

	post := models.Post{
		AuthorId: utilities.CurrentUser(ctx).Id,
		Title:    request.Title,
		Subtitle: request.Subtitle,
		ImgUrl:   request.ImgUrl,
		Body:     request.Body,
		Date:     utilities.PostDate(s.now()),
	}
	if err := s.postRepo.CreatePost(&post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utilities.AddFlash(ctx, msgDuplicateTitle)
			ctx.Redirect(http.StatusFound, "/new-post")
			return
		}
		slog.Error("creating post", "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to create the post.")
		return
	}
	slog.Info("post created", "post_id", post.Id, "author_id", post.AuthorId)
	ctx.Redirect(http.StatusFound, "/")
}

func (s *PostService) EditPostPage(ctx *gin.Context) {
	post, ok := s.loadPost(ctx)
	if !ok {
		return
	}
	utilities.Render(ctx, http.StatusOK, "make-post.html", gin.H{
		"Form":   dto.PostFormFrom(post),
		"IsEdit": true,
		"PostId": post.Id,
	})
}

func (s *PostService) EditPost(ctx *gin.Context) {
	post, ok := s.loadPost(ctx)
	if !ok {
		return
	}
	editPath := fmt.Sprintf("/edit-post/%d", post.Id)

	request := bindPostForm(ctx)
	if fieldErrs := utilities.ValidateForm(request); fieldErrs != nil {
		utilities.Render(ctx, http.StatusBadRequest, "make-post.html", gin.H{
			"Form":   request,
			"Errors": fieldErrs,
			"IsEdit": true,
			"PostId": post.Id,
		})
		return
	}

	taken, err := s.postRepo.TitleTaken(request.Title, post.Id)
	if err != nil {
		slog.Error("checking post title", "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to update the post.")
		return
	}
	if taken {
		utilities.AddFlash(ctx, msgDuplicateTitle)
		ctx.Redirect(http.StatusFound, editPath)
		return
	}

	post.Title = request.Title
	post.Subtitle = request.Subtitle
	post.ImgUrl = request.ImgUrl
	post.Body = request.Body
	if err := s.postRepo.UpdatePost(post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utilities.AddFlash(ctx, msgDuplicateTitle)
			ctx.Redirect(http.StatusFound, editPath)
			return
		}
		slog.Error("updating post", "post_id", post.Id, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to update the post.")
		return
	}
	ctx.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.Id))
}

func (s *PostService) DeletePost(ctx *gin.Context) {
	postId, ok := parsePostId(ctx)
	if !ok {
		utilities.RenderError(ctx, http.StatusNotFound, msgPostNotFound)
		return
	}

	if err := s.postRepo.DeletePost(postId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.RenderError(ctx, http.StatusNotFound, msgPostNotFound)
			return
		}
		slog.Error("deleting post", "post_id", postId, "error", err)
		utilities.RenderError(ctx, http.StatusInternalServerError, "Failed to delete the post.")
		return
	}
	slog.Info("post deleted", "post_id", postId)
	ctx.Redirect(http.StatusFound, "/")
}

func summarize(post models.Post) dto.PostSummary {
	return dto.PostSummary{
		Id:       post.Id,
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Author:   post.Author.Name,
		Date:     post.Date,
	}
}

func (s *PostService) APIListPosts(ctx *gin.Context) {
	posts, err := s.postRepo.GetPosts()
	if err != nil {
		slog.Error("listing posts", "error", err)
		utilities.Response(ctx, http.StatusInternalServerError, false, nil, "Failed to get posts")
		return
	}

	summaries := make([]dto.PostSummary, len(posts))
	for i, post := range posts {
		summaries[i] = summarize(post)
	}
	utilities.Response(ctx, http.StatusOK, true, summaries, "Posts fetched successfully")
}

func (s *PostService) APIGetPost(ctx *gin.Context) {
	postId, ok := parsePostId(ctx)
	if !ok {
		utilities.Response(ctx, http.StatusBadRequest, false, nil, "Invalid post ID")
		return
	}
	post, err := s.postRepo.GetPostById(postId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Response(ctx, http.StatusNotFound, false, nil, "Post not found")
			return
		}
		slog.Error("fetching post", "post_id", postId, "error", err)
		utilities.Response(ctx, http.StatusInternalServerError, false, nil, "Failed to get post")
		return
	}

	comments, err := s.commentRepo.GetCommentsByPost(postId)
	if err != nil {
		slog.Error("fetching comments", "post_id", postId, "error", err)
		utilities.Response(ctx, http.StatusInternalServerError, false, nil, "Failed to get comments")
		return
	}

	detail := dto.PostDetail{
		PostSummary: summarize(*post),
		ImgUrl:      post.ImgUrl,
		Body:        post.Body,
		Comments:    make([]dto.CommentDetail, len(comments)),
	}
	for i, comment := range comments {
		detail.Comments[i] = dto.CommentDetail{
			Name:     comment.Commenter.Name,
			Gravatar: utilities.GravatarURL(comment.Commenter.Email, gravatarSize),
			Comment:  comment.Text,
		}
	}
	utilities.Response(ctx, http.StatusOK, true, detail, "Post fetched successfully")
}
