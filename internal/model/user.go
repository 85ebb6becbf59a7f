package model

import (
	"time"
)

// 用户角色
const (
	RoleBasic   = "basic"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role" gorm:"type:varchar(16)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
	Role     string
}

// ToSession 转换为 Session 用户信息
func (u *User) ToSession() SessionUser {
	return SessionUser{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}
