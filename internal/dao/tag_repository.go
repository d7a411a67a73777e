package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/model"
	"github.com/haierkeys/fast-note-web/pkg/timex"
	"gorm.io/gorm/clause"
)

// tagRepository 实现 domain.TagRepository 接口
type tagRepository struct {
	dao *Dao
}

// NewTagRepository 创建 TagRepository 实例
func NewTagRepository(dao *Dao) domain.TagRepository {
	return &tagRepository{dao: dao}
}

func (r *tagRepository) toDomain(m *model.Tag) *domain.Tag {
	if m == nil {
		return nil
	}
	return &domain.Tag{ID: m.ID, Name: m.Name, CreatedAt: time.Time(m.CreatedAt)}
}

// ListUsed 返回至少被一篇笔记使用的标签，按数量降序、名称升序
func (r *tagRepository) ListUsed(ctx context.Context) ([]*domain.Tag, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	var rows []model.TagCount
	err = db.Table(r.dao.Table("Tag") + " AS t").
		Select("t.id, t.name, COUNT(DISTINCT n.id) AS note_count").
		Joins("JOIN " + r.dao.JoinTable("note_tags") + " AS nt ON nt.tag_id = t.id").
		Joins("JOIN " + r.dao.Table("Note") + " AS n ON n.id = nt.note_id").
		Group("t.id, t.name").
		Order("note_count DESC, t.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Tag, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.Tag{ID: row.ID, Name: row.Name, NoteCount: row.NoteCount})
	}
	return out, nil
}

// ListAll 返回全部标签，按名称排序
func (r *tagRepository) ListAll(ctx context.Context) ([]*domain.Tag, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	var ms []*model.Tag
	if err := db.Order("name ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Tag, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// GetByID 根据ID获取标签
func (r *tagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	var m model.Tag
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetOrCreate 按名称获取标签，不存在时创建
func (r *tagRepository) GetOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	m := &model.Tag{Name: name, CreatedAt: timex.Now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error; err != nil {
		return nil, err
	}
	var found model.Tag
	if err := db.Where("name = ?", name).First(&found).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&found), nil
}

var _ domain.TagRepository = (*tagRepository)(nil)
