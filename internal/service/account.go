package service

import (
	"fmt"
	"strings"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
)

// RegisterInput 注册参数
type RegisterInput struct {
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	Username        string `form:"username" json:"username" validate:"max=50"`
}

// AccountService 注册与登录
type AccountService struct {
	users *repository.UserRepository
}

func NewAccountService(repos *repository.Repositories) *AccountService {
	return &AccountService{users: repos.User}
}

// Register 注册新用户（角色 basic），用户名缺省取邮箱 @ 前部分
func (s *AccountService) Register(in RegisterInput) (*model.User, error) {
	in.Email = repository.NormalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		return nil, invalid("confirm_password", "两次输入的密码不一致")
	}

	taken, err := s.users.EmailTaken(in.Email)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username, _, _ = strings.Cut(in.Email, "@")
	}

	user := &model.User{Email: in.Email, Username: username, Role: model.RoleBasic}
	if err := s.users.Create(user, in.Password); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	logging.Info().Int("user_id", user.ID).Msg("[Account] 新用户注册")
	return user, nil
}

// Authenticate 校验邮箱与密码
func (s *AccountService) Authenticate(email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil || !s.users.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
