package model

import "github.com/haierkeys/fast-note-web/pkg/timex"

// User 数据表模型，表名由 NamingStrategy 生成
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey" json:"uid" form:"uid"`
	Username  string     `gorm:"column:username;size:100;not null;uniqueIndex:idx_user_username" json:"username" form:"username"`
	Password  string     `gorm:"column:password;size:255;not null" json:"-" form:"password"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true" json:"isActive" form:"isActive"`
	CreatedAt timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}
