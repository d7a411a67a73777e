package service

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/logger"
	"github.com/haierkeys/fast-note-web/pkg/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService 定义用户业务服务接口
type UserService interface {
	// Login checks the credentials; a wrong password and an unknown name look the same
	// Login 校验用户名密码，密码错误与用户不存在返回相同错误
	Login(ctx context.Context, username, password string) (*domain.User, error)

	// Create 创建用户
	Create(ctx context.Context, username, password string) (*domain.User, error)

	// SetActive 启用或停用用户
	SetActive(ctx context.Context, username string, active bool) error

	// Get 根据 UID 获取用户
	Get(ctx context.Context, uid int64) (*domain.User, error)
}

// userService 实现 UserService 接口
type userService struct {
	userRepo domain.UserRepository
	logger   *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

// Login 用户登录
func (s *userService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorUserLoginPasswordFailed
	}
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !util.CheckPasswordHash(user.Password, password) {
		return nil, code.ErrorUserLoginPasswordFailed
	}
	if !user.IsActive {
		return nil, code.ErrorUserInactive
	}
	s.logger.Info("user logged in", zap.Int64(logger.FieldUID, user.UID), zap.String("username", user.Username))
	return user, nil
}

// Create 创建用户
func (s *userService) Create(ctx context.Context, username, password string) (*domain.User, error) {
	if !util.IsValidUsername(username) {
		return nil, code.ErrorUserUsernameInvalid
	}
	if len(password) < 6 {
		return nil, code.ErrorUserPasswordTooShort
	}

	exists, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if exists != nil {
		return nil, code.ErrorUserAlreadyExists
	}

	hash, err := util.GeneratePasswordHash(password)
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	user, err := s.userRepo.Create(ctx, &domain.User{Username: username, Password: hash})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return user, nil
}

// SetActive 启用或停用用户
func (s *userService) SetActive(ctx context.Context, username string, active bool) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return code.ErrorUserNotFound
	}
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if err := s.userRepo.UpdateActive(ctx, user.UID, active); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// Get 根据 UID 获取用户
func (s *userService) Get(ctx context.Context, uid int64) (*domain.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorUserNotFound
	}
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return user, nil
}
