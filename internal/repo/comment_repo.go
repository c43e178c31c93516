package repo

import (
	"module/blogwithusers/internal/models"

	"gorm.io/gorm"
)

type CommentRepo struct {
	DB *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{DB: db}
}

func (r *CommentRepo) CreateComment(comment *models.Comment) error {
	return r.DB.Create(comment).Error
}

// GetCommentsByPost returns the post's comments newest first, commenters loaded.
func (r *CommentRepo) GetCommentsByPost(postId int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.DB.Preload("Commenter").Where("post_id = ?", postId).Order("id DESC").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepo) CountByPost(postId int64) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Comment{}).Where("post_id = ?", postId).Count(&count).Error
	return count, err
}
