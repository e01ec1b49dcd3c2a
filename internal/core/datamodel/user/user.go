package user

import "time"

type User struct {
	ID         int64     `gorm:"primaryKey"`
	Email      string    `gorm:"column:email;uniqueIndex;not null"`
	Name       string    `gorm:"column:name;not null"`
	RoleID     int64     `gorm:"column:role_id;not null"`
	IsVerified bool      `gorm:"column:is_verified;default:false"`
	Salt       string    `gorm:"column:salt;not null"`
	Hash       string    `gorm:"column:hash;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
