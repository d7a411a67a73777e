package domain

import "time"

// Tag 标签领域模型
type Tag struct {
	ID        int64
	Name      string
	NoteCount int64
	CreatedAt time.Time
}
