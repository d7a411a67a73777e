package model

import "github.com/haierkeys/fast-note-web/pkg/timex"

// Note 数据表模型，表名由 NamingStrategy 生成
type Note struct {
	ID        int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	Title     string     `gorm:"column:title;size:200;not null;default:''" json:"title" form:"title"`
	Text      string     `gorm:"column:text;type:text" json:"text" form:"text"`
	UID       int64      `gorm:"column:uid;not null;default:0;index:idx_note_uid" json:"uid" form:"uid"`
	Tags      []Tag      `gorm:"many2many:note_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Files     []File     `gorm:"foreignKey:NoteID" json:"files"`
	CreatedAt timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}
