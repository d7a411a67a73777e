package model

import "github.com/haierkeys/fast-note-web/pkg/timex"

// File 数据表模型，表名由 NamingStrategy 生成
type File struct {
	ID          int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	NoteID      int64      `gorm:"column:note_id;not null;default:0;index:idx_file_note" json:"noteId" form:"noteId"`
	Key         string     `gorm:"column:key;size:255;not null" json:"key" form:"key"`
	Name        string     `gorm:"column:name;size:255;not null;default:''" json:"name" form:"name"`
	ContentType string     `gorm:"column:content_type;size:100;not null;default:''" json:"contentType" form:"contentType"`
	Size        int64      `gorm:"column:size;not null;default:0" json:"size" form:"size"`
	URL         string     `gorm:"column:url;size:500;not null;default:''" json:"url" form:"url"`
	CreatedAt   timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}
