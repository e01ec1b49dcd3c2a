package article

import "time"

type Article struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	Content     string    `gorm:"column:content"`
	AuthorID    int64     `gorm:"column:author_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Article) TableName() string { return "articles" }
