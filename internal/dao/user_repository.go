package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/model"
	"github.com/haierkeys/fast-note-web/pkg/timex"
	"gorm.io/gorm"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:       m.UID,
		Username:  m.Username,
		Password:  m.Password,
		IsActive:  m.IsActive,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// GetByUID 根据UID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	var m model.User
	if err := db.Where("uid = ?", uid).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	var m model.User
	if err := db.Where("username = ?", username).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建用户，新用户总是启用状态
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	m := &model.User{
		Username:  user.Username,
		Password:  user.Password,
		IsActive:  true,
		CreatedAt: timex.Now(),
		UpdatedAt: timex.Now(),
	}
	if err := db.Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateActive 启用或停用用户
func (r *userRepository) UpdateActive(ctx context.Context, uid int64, active bool) error {
	return r.update(ctx, uid, map[string]any{"is_active": active, "updated_at": timex.Now()})
}

// UpdatePassword 更新用户密码
func (r *userRepository) UpdatePassword(ctx context.Context, uid int64, password string) error {
	return r.update(ctx, uid, map[string]any{"password": password, "updated_at": timex.Now()})
}

func (r *userRepository) update(ctx context.Context, uid int64, values map[string]any) error {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return err
	}
	res := db.Model(&model.User{}).Where("uid = ?", uid).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// 确保 userRepository 实现了 domain.UserRepository 接口
var _ domain.UserRepository = (*userRepository)(nil)
