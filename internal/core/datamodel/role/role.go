package role

import "time"

type Role struct {
	ID              int64     `gorm:"primaryKey"`
	Name            string    `gorm:"column:name;uniqueIndex;not null"`
	Description     string    `gorm:"column:description"`
	IsAuthenticated bool      `gorm:"column:is_authenticated;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string { return "roles" }
