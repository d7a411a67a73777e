// Package domain 定义领域模型和接口
package domain

import "context"

// NoteRepository 笔记仓储接口
// Lookups of a missing id return gorm.ErrRecordNotFound.
// 查询不存在的 ID 返回 gorm.ErrRecordNotFound。
type NoteRepository interface {
	// Count 统计符合筛选条件的笔记数量
	Count(ctx context.Context, filter NoteFilter) (int64, error)

	// List returns filtered notes ordered by id ascending with tags and files loaded; limit < 0 means all
	// List 按 ID 升序返回筛选后的笔记（含标签与附件），limit < 0 表示全部
	List(ctx context.Context, filter NoteFilter, offset, limit int) ([]*Note, error)

	// IDs 按 ID 升序返回筛选后的笔记 ID
	IDs(ctx context.Context, filter NoteFilter) ([]int64, error)

	// GetByID 根据ID获取笔记
	GetByID(ctx context.Context, id int64) (*Note, error)

	// Create 创建笔记
	Create(ctx context.Context, note *Note) (*Note, error)

	// Update 更新笔记标题与正文
	Update(ctx context.Context, note *Note) (*Note, error)

	// Delete removes the note and its tag associations, tag rows are kept
	// Delete 删除笔记及其标签关联，保留标签本身
	Delete(ctx context.Context, id int64) error

	// ReplaceTags clears the tag association of the note and adds tagIDs
	// ReplaceTags 清空笔记的标签关联后重新添加
	ReplaceTags(ctx context.Context, noteID int64, tagIDs []int64) error
}

// TagRepository 标签仓储接口
type TagRepository interface {
	// ListUsed returns tags carried by at least one note with their note count
	// ListUsed 返回至少被一篇笔记使用的标签及其数量
	ListUsed(ctx context.Context) ([]*Tag, error)

	// ListAll 返回全部标签，按名称排序
	ListAll(ctx context.Context) ([]*Tag, error)

	// GetByID 根据ID获取标签
	GetByID(ctx context.Context, id int64) (*Tag, error)

	// GetOrCreate 按名称获取标签，不存在时创建
	GetOrCreate(ctx context.Context, name string) (*Tag, error)
}

// FileRepository 附件仓储接口
type FileRepository interface {
	// Create 创建附件记录
	Create(ctx context.Context, file *File) (*File, error)

	// ListByNote 返回笔记的附件
	ListByNote(ctx context.Context, noteID int64) ([]*File, error)

	// DeleteByNote deletes the file rows of the note and returns them
	// DeleteByNote 删除笔记的附件记录并返回被删除的记录
	DeleteByNote(ctx context.Context, noteID int64) ([]*File, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByUsername 根据用户名获取用户
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create 创建用户
	Create(ctx context.Context, user *User) (*User, error)

	// UpdateActive 启用或停用用户
	UpdateActive(ctx context.Context, uid int64, active bool) error

	// UpdatePassword 更新用户密码
	UpdatePassword(ctx context.Context, uid int64, password string) error
}
