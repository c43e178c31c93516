package repo

import (
	"errors"

	"module/blogwithusers/internal/models"

	"gorm.io/gorm"
)

type SearchRepo struct {
	DB *gorm.DB
}

func NewSearchRepo(db *gorm.DB) *SearchRepo {
	return &SearchRepo{DB: db}
}

// IncrementUserSearch bumps the user's counter for term, creating it at 1.
func (r *SearchRepo) IncrementUserSearch(userId int64, term string) error {
	var row models.SearchCount
	err := r.DB.Where("user_id = ? AND search_item = ?", userId, term).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.DB.Create(&models.SearchCount{
				UserId:      userId,
				SearchItem:  term,
				SearchCount: 1,
			}).Error
		}
		return err
	}
	return r.DB.Model(&row).UpdateColumn("search_count", gorm.Expr("search_count + ?", 1)).Error
}

// IncrementTotalSearch bumps the site-wide counter for term, creating it at 1.
func (r *SearchRepo) IncrementTotalSearch(term string) error {
	var row models.TotalSearchCount
	err := r.DB.Where("search_item = ?", term).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.DB.Create(&models.TotalSearchCount{
				SearchItem:       term,
				TotalSearchCount: 1,
			}).Error
		}
		return err
	}
	return r.DB.Model(&row).UpdateColumn("total_search_count", gorm.Expr("total_search_count + ?", 1)).Error
}

func (r *SearchRepo) GetUserSearches(userId int64) ([]models.SearchCount, error) {
	var rows []models.SearchCount
	if err := r.DB.Where("user_id = ?", userId).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SearchRepo) GetTotalSearches() ([]models.TotalSearchCount, error) {
	var rows []models.TotalSearchCount
	if err := r.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
