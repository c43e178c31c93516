package repo

import (
	"errors"

	"module/blogwithusers/internal/models"

	"gorm.io/gorm"
)

type PostRepo struct {
	DB *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{DB: db}
}

func (r *PostRepo) CreatePost(post *models.Post) error {
	return r.DB.Create(post).Error
}

// GetPosts returns every post, newest first.
func (r *PostRepo) GetPosts() ([]models.Post, error) {
	var posts []models.Post
	err := r.DB.Preload("Author").Order("id DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepo) GetPostById(postId int64) (*models.Post, error) {
	var post models.Post
	if err := r.DB.Preload("Author").Where("id = ?", postId).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// TitleTaken reports whether another post already uses title. excludeId lets an
// edit keep its own title.
func (r *PostRepo) TitleTaken(title string, excludeId int64) (bool, error) {
	var post models.Post
	err := r.DB.Select("id").Where("title = ? AND id <> ?", title, excludeId).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdatePost overwrites the editable fields. Date and author are left alone.
func (r *PostRepo) UpdatePost(post *models.Post) error {
	return r.DB.Model(&models.Post{Id: post.Id}).Updates(map[string]any{
		"title":    post.Title,
		"subtitle": post.Subtitle,
		"img_url":  post.ImgUrl,
		"body":     post.Body,
	}).Error
}

// DeletePost removes the post's comments and then the post in one transaction.
// It returns gorm.ErrRecordNotFound when no post has that id.
func (r *PostRepo) DeletePost(postId int64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postId).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, postId)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
