package dto

import "module/blogwithusers/internal/models"

type CreatePostRequest struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=300"`
	ImgUrl   string `form:"img_url" validate:"required,url,max=500"`
	Body     string `form:"body" validate:"required"`
}

func PostFormFrom(post *models.Post) CreatePostRequest {
	return CreatePostRequest{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgUrl:   post.ImgUrl,
		Body:     post.Body,
	}
}

// CommentRequest carries only presence validation; the length cap is checked
// by the handler so an oversize comment gets a flash rather than a field error.
type CommentRequest struct {
	Comment string `form:"comment" validate:"required"`
}

type PostSummary struct {
	Id       int64  `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
	Date     string `json:"date"`
}

type PostDetail struct {
	PostSummary
	ImgUrl   string          `json:"img_url"`
	Body     string          `json:"body"`
	Comments []CommentDetail `json:"comments"`
}

type CommentDetail struct {
	Name     string `json:"name"`
	Gravatar string `json:"gravatar"`
	Comment  string `json:"comment"`
}
