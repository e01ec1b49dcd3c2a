package media

import "time"

type MediaObject struct {
	ID              int64     `gorm:"primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	AlternativeText string    `gorm:"column:alternative_text"`
	Caption         string    `gorm:"column:caption"`
	Width           int       `gorm:"column:width"`
	Height          int       `gorm:"column:height"`
	Hash            string    `gorm:"column:hash;not null"`
	Ext             string    `gorm:"column:ext"`
	Mime            string    `gorm:"column:mime"`
	Size            int64     `gorm:"column:size"`
	URL             string    `gorm:"column:url"`
	Path            string    `gorm:"column:path"`
	Provider        string    `gorm:"column:provider"`
	ThumbnailHash   string    `gorm:"column:thumbnail_hash"`
	ThumbnailWidth  int       `gorm:"column:thumbnail_width"`
	ThumbnailHeight int       `gorm:"column:thumbnail_height"`
	ThumbnailSize   int64     `gorm:"column:thumbnail_size"`
	ThumbnailURL    string    `gorm:"column:thumbnail_url"`
	ThumbnailPath   string    `gorm:"column:thumbnail_path"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (MediaObject) TableName() string { return "media_objects" }
