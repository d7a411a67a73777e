package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/model"
	"github.com/haierkeys/fast-note-web/pkg/timex"
	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	n := &domain.Note{
		ID:        m.ID,
		Title:     m.Title,
		Text:      m.Text,
		UID:       m.UID,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
	for _, t := range m.Tags {
		n.Tags = append(n.Tags, domain.Tag{ID: t.ID, Name: t.Name, CreatedAt: time.Time(t.CreatedAt)})
	}
	for i := range m.Files {
		n.Files = append(n.Files, *fileToDomain(&m.Files[i]))
	}
	return n
}

// filtered applies the tag and search filters to a query on the note table
// filtered 在笔记查询上应用标签与搜索条件
func (r *noteRepository) filtered(db *gorm.DB, filter domain.NoteFilter) *gorm.DB {
	filter = filter.Normalized()
	noteTags := r.dao.JoinTable("note_tags")
	q := db.Model(&model.Note{})

	if filter.TagID > 0 {
		q = q.Where("id IN (?)", db.Table(noteTags).Select("note_id").Where("tag_id = ?", filter.TagID))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		byTag := db.Table(noteTags+" AS nt").
			Select("nt.note_id").
			Joins("JOIN "+r.dao.Table("Tag")+" AS t ON t.id = nt.tag_id").
			Where("LOWER(t.name) LIKE ? ESCAPE '!'", pattern)
		q = q.Where(
			db.Where("LOWER(title) LIKE ? ESCAPE '!'", pattern).
				Or("LOWER(text) LIKE ? ESCAPE '!'", pattern).
				Or("id IN (?)", byTag),
		)
	}
	return q
}

// Count 统计符合筛选条件的笔记数量
func (r *noteRepository) Count(ctx context.Context, filter domain.NoteFilter) (int64, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	err = r.filtered(db, filter).Count(&total).Error
	return total, err
}

// IDs 按 ID 升序返回筛选后的笔记 ID
func (r *noteRepository) IDs(ctx context.Context, filter domain.NoteFilter) ([]int64, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	var ids []int64
	err = r.filtered(db, filter).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// List 按 ID 升序返回筛选后的笔记
func (r *noteRepository) List(ctx context.Context, filter domain.NoteFilter, offset, limit int) ([]*domain.Note, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	q := r.filtered(db, filter).Order("id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit >= 0 {
		q = q.Limit(limit)
	}

	var ms []*model.Note
	if err := preload(q).Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	var m model.Note
	if err := preload(db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建笔记
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	m := &model.Note{
		Title:     note.Title,
		Text:      note.Text,
		UID:       note.UID,
		CreatedAt: timex.Now(),
		UpdatedAt: timex.Now(),
	}
	if err := db.Omit("Tags", "Files").Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Update 更新笔记标题与正文，笔记不存在时返回 gorm.ErrRecordNotFound
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	res := db.Model(&model.Note{}).Where("id = ?", note.ID).Updates(map[string]any{
		"title":      note.Title,
		"text":       note.Text,
		"updated_at": timex.Now(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, note.ID)
}

// Delete 删除笔记及其标签关联，笔记不存在时返回 gorm.ErrRecordNotFound
func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+r.dao.JoinTable("note_tags")+" WHERE note_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ReplaceTags 清空笔记的标签关联后重新添加
func (r *noteRepository) ReplaceTags(ctx context.Context, noteID int64, tagIDs []int64) error {
	noteTags := r.dao.JoinTable("note_tags")
	return r.dao.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+noteTags+" WHERE note_id = ?", noteID).Error; err != nil {
			return err
		}
		seen := make(map[int64]struct{}, len(tagIDs))
		rows := make([]map[string]any, 0, len(tagIDs))
		for _, id := range tagIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			rows = append(rows, map[string]any{"note_id": noteID, "tag_id": id})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Table(noteTags).Create(rows).Error
	})
}

func preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// 确保 noteRepository 实现了 domain.NoteRepository 接口
var _ domain.NoteRepository = (*noteRepository)(nil)
