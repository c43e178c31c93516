package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

type User struct {
	Id        int64         `json:"id" gorm:"primaryKey;autoIncrement;not null"`
	Name      string        `json:"name" gorm:"size:250;not null"`
	Email     string        `json:"email" gorm:"size:100;unique;not null"`
	Password  string        `json:"-" gorm:"size:300;not null"`
	Role      string        `json:"role" gorm:"size:20;not null;default:reader"`
	Posts     []Post        `json:"-" gorm:"foreignKey:AuthorId"`
	Comments  []Comment     `json:"-" gorm:"foreignKey:CommenterId"`
	Searches  []SearchCount `json:"-" gorm:"foreignKey:UserId"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

func (u User) TableName() string {
	return "users"
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
