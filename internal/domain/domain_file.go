package domain

import "time"

// File 笔记附件
type File struct {
	ID          int64
	NoteID      int64
	Key         string
	Name        string
	ContentType string
	Size        int64
	URL         string
	CreatedAt   time.Time
}

// IsImage 是否为图片
func (f *File) IsImage() bool {
	return len(f.ContentType) > 6 && f.ContentType[:6] == "image/"
}
