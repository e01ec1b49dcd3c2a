package book

import "time"

type Book struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	Content     string    `gorm:"column:content"`
	AuthorID    int64     `gorm:"column:author_id;not null"`
	CoverID     *int64    `gorm:"column:cover_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Book) TableName() string { return "books" }
