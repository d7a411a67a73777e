package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/model"
	"github.com/haierkeys/fast-note-web/pkg/timex"
	"gorm.io/gorm"
)

// fileRepository 实现 domain.FileRepository 接口
type fileRepository struct {
	dao *Dao
}

// NewFileRepository 创建 FileRepository 实例
func NewFileRepository(dao *Dao) domain.FileRepository {
	return &fileRepository{dao: dao}
}

func fileToDomain(m *model.File) *domain.File {
	if m == nil {
		return nil
	}
	return &domain.File{
		ID:          m.ID,
		NoteID:      m.NoteID,
		Key:         m.Key,
		Name:        m.Name,
		ContentType: m.ContentType,
		Size:        m.Size,
		URL:         m.URL,
		CreatedAt:   time.Time(m.CreatedAt),
	}
}

// Create 创建附件记录
func (r *fileRepository) Create(ctx context.Context, file *domain.File) (*domain.File, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	m := &model.File{
		NoteID:      file.NoteID,
		Key:         file.Key,
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        file.Size,
		URL:         file.URL,
		CreatedAt:   timex.Now(),
	}
	if err := db.Create(m).Error; err != nil {
		return nil, err
	}
	return fileToDomain(m), nil
}

// ListByNote 返回笔记的附件，按 ID 升序
func (r *fileRepository) ListByNote(ctx context.Context, noteID int64) ([]*domain.File, error) {
	db, err := r.dao.Use(ctx)
	if err != nil {
		return nil, err
	}
	var ms []*model.File
	if err := db.Where("note_id = ?", noteID).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.File, 0, len(ms))
	for _, m := range ms {
		out = append(out, fileToDomain(m))
	}
	return out, nil
}

// DeleteByNote 删除笔记的附件记录并返回被删除的记录
func (r *fileRepository) DeleteByNote(ctx context.Context, noteID int64) ([]*domain.File, error) {
	var out []*domain.File
	err := r.dao.Transaction(ctx, func(tx *gorm.DB) error {
		var ms []*model.File
		if err := tx.Where("note_id = ?", noteID).Order("id ASC").Find(&ms).Error; err != nil {
			return err
		}
		if len(ms) == 0 {
			return nil
		}
		if err := tx.Where("note_id = ?", noteID).Delete(&model.File{}).Error; err != nil {
			return err
		}
		for _, m := range ms {
			out = append(out, fileToDomain(m))
		}
		return nil
	})
	return out, err
}

var _ domain.FileRepository = (*fileRepository)(nil)
