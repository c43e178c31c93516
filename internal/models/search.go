package models

// SearchCount is a per-user counter; one row per (user, term).
type SearchCount struct {
	Id          int64  `json:"id" gorm:"primaryKey"`
	UserId      int64  `json:"user_id" gorm:"uniqueIndex:idx_top_searches_user_term;not null"`
	SearchItem  string `json:"search_item" gorm:"size:300;uniqueIndex:idx_top_searches_user_term;not null"`
	SearchCount int64  `json:"search_count" gorm:"not null;default:0"`
}

func (s SearchCount) TableName() string {
	return "top_searches"
}

// TotalSearchCount is the site-wide counter; one row per term.
type TotalSearchCount struct {
	Id               int64  `json:"id" gorm:"primaryKey"`
	SearchItem       string `json:"search_item" gorm:"size:300;uniqueIndex;not null"`
	TotalSearchCount int64  `json:"total_search_count" gorm:"not null;default:0"`
}

func (t TotalSearchCount) TableName() string {
	return "total_top_searches"
}
