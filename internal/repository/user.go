package repository

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/user/streamflix/internal/model"
)

// NormalizeEmail 邮箱统一小写、去空白后存储与查询
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 写入用户，password 为明文，入库前做 bcrypt；角色为空时为 basic
func (r *UserRepository) Create(user *model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Email = NormalizeEmail(user.Email)
	user.PasswordHash = string(hash)
	if user.Role == "" {
		user.Role = model.RoleBasic
	}
	return r.db.Create(user).Error
}

// FindByEmail 根据邮箱查找用户，不存在返回 nil
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken 邮箱是否已注册
func (r *UserRepository) EmailTaken(email string) (bool, error) {
	var n int64
	err := r.db.Model(&model.User{}).Where("email = ?", NormalizeEmail(email)).Count(&n).Error
	return n > 0, err
}

// CheckPassword 校验明文密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
