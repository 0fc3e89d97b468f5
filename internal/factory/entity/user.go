package entity

import (
	"time"
)

// UserRole 用户角色
const (
	UserRoleAdmin  = "admin"
	UserRoleStaff  = "staff"
	UserRoleViewer = "viewer"
)

// User 系统用户
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:64"`
	PasswordHash string     `json:"-" gorm:"size:128;not null"`
	Role         string     `json:"role" gorm:"size:20;not null;default:staff"`
	Status       string     `json:"status" gorm:"size:20;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "factory_users"
}
