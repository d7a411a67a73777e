package domain

import (
	"strings"
	"time"
)

// Note 笔记领域模型
type Note struct {
	ID        int64
	Title     string
	Text      string
	UID       int64
	Tags      []Tag
	Files     []File
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagNames 返回标签名称，保持顺序
func (n *Note) TagNames() []string {
	out := make([]string, 0, len(n.Tags))
	for _, t := range n.Tags {
		out = append(out, t.Name)
	}
	return out
}

// HasTag 判断笔记是否带有指定标签
func (n *Note) HasTag(tagID int64) bool {
	for _, t := range n.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// IsNew 尚未持久化
func (n *Note) IsNew() bool {
	return n.ID == 0
}

// NoteFilter selects notes by tag and by a case insensitive substring of
// title, text or any tag name. Zero values disable the corresponding filter.
// NoteFilter 按标签与标题、正文、标签名的不区分大小写子串筛选笔记，零值表示不筛选。
type NoteFilter struct {
	TagID  int64
	Search string
}

// Normalized 去除搜索词两端空白
func (f NoteFilter) Normalized() NoteFilter {
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// IsEmpty 是否没有任何筛选条件
func (f NoteFilter) IsEmpty() bool {
	return f.TagID == 0 && strings.TrimSpace(f.Search) == ""
}
