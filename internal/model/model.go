// Package model 定义数据模型
package model

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// All 返回需要迁移的全部模型
func All() []any {
	return []any{&User{}, &Tag{}, &Note{}, &File{}}
}

// AutoMigrate 创建或更新全部数据表
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}
