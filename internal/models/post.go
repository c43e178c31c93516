package models

// Post.Date is the human readable creation date ("January 2, 2006"); it is set
// once on create or import and never touched by edits.
type Post struct {
	Id       int64     `json:"id" gorm:"primaryKey"`
	AuthorId int64     `json:"author_id" gorm:"index"`
	Author   User      `json:"author" gorm:"foreignKey:AuthorId"`
	Title    string    `json:"title" gorm:"size:250;unique;not null"`
	Subtitle string    `json:"subtitle" gorm:"size:300"`
	Date     string    `json:"date" gorm:"size:250"`
	Body     string    `json:"body" gorm:"type:text"`
	ImgUrl   string    `json:"img_url" gorm:"size:500"`
	Comments []Comment `json:"-" gorm:"foreignKey:PostId"`
}

func (p Post) TableName() string {
	return "blog_posts"
}

const PostDateLayout = "January 2, 2006"
