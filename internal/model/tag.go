package model

import "github.com/haierkeys/fast-note-web/pkg/timex"

// Tag 数据表模型，表名由 NamingStrategy 生成
type Tag struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	Name      string     `gorm:"column:name;size:100;not null;uniqueIndex:idx_tag_name" json:"name" form:"name"`
	CreatedAt timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TagCount 标签及其笔记数量，查询结果
type TagCount struct {
	ID        int64  `gorm:"column:id"`
	Name      string `gorm:"column:name"`
	NoteCount int64  `gorm:"column:note_count"`
}
