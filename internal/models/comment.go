package models

import "time"

const MaxCommentLength = 350

type Comment struct {
	Id          int64     `json:"id" gorm:"primaryKey"`
	CommenterId int64     `json:"commenter_id" gorm:"index;not null"`
	Commenter   User      `json:"commenter" gorm:"foreignKey:CommenterId"`
	PostId      int64     `json:"post_id" gorm:"index;not null"`
	Post        *Post     `json:"-" gorm:"foreignKey:PostId;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text        string    `json:"text" gorm:"column:comments_posted;type:text;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (c Comment) TableName() string {
	return "comments"
}
