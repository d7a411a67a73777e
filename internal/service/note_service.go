package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Browse applies the filter and resolves the current note
	// Browse 应用筛选条件并确定当前笔记
	Browse(ctx context.Context, params *BrowseParams) (*BrowseResult, error)

	// Count 统计符合筛选条件的笔记数量
	Count(ctx context.Context, filter domain.NoteFilter) (int64, error)

	// List 分页返回符合筛选条件的笔记，按 ID 升序
	List(ctx context.Context, filter domain.NoteFilter, offset, limit int) ([]*domain.Note, error)

	// Get 根据 ID 获取笔记
	Get(ctx context.Context, id int64) (*domain.Note, error)

	// Save creates or updates a note, replaces its tags and attaches uploaded files
	// Save 创建或更新笔记，替换标签并关联上传的文件
	Save(ctx context.Context, uid int64, params *NoteSaveParams) (*domain.Note, error)

	// Delete 删除笔记，附件在后台删除
	Delete(ctx context.Context, id int64) (*domain.Note, error)
}

// BrowseParams 浏览参数
type BrowseParams struct {
	TagID     int64
	Search    string
	CurrentID int64
}

// Filter 返回对应的筛选条件
func (p *BrowseParams) Filter() domain.NoteFilter {
	return domain.NoteFilter{TagID: p.TagID, Search: NormalizeSearch(p.Search)}
}

// BrowseResult 浏览结果
type BrowseResult struct {
	// IDs of the matching notes in id order
	IDs   []int64
	Total int
	// Current is nil when nothing matches
	Current *domain.Note
}

// CurrentID 当前笔记 ID，无当前笔记时为 0
func (r *BrowseResult) CurrentID() int64 {
	if r.Current == nil {
		return 0
	}
	return r.Current.ID
}

// NoteSaveParams 笔记保存参数
type NoteSaveParams struct {
	ID    int64  `validate:"gte=0"`
	Title string `validate:"required,max=50"`
	Text  string `validate:"required"`
	Tags  []string
	Files []*multipart.FileHeader
}

// NormalizeSearch 规范化搜索词
func NormalizeSearch(s string) string {
	return norm.NFC.String(s)
}

type noteService struct {
	noteRepo    domain.NoteRepository
	tagService  TagService
	fileService FileService
	logger      *zap.Logger
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, tagService TagService, fileService FileService, logger *zap.Logger) NoteService {
	return &noteService{
		noteRepo:    noteRepo,
		tagService:  tagService,
		fileService: fileService,
		logger:      logger,
	}
}

func (s *noteService) Browse(ctx context.Context, params *BrowseParams) (*BrowseResult, error) {
	ids, err := s.noteRepo.IDs(ctx, params.Filter())
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	res := &BrowseResult{IDs: ids, Total: len(ids)}
	if len(ids) == 0 {
		return res, nil
	}

	current := ids[0]
	for _, id := range ids {
		if id == params.CurrentID {
			current = id
			break
		}
	}
	note, err := s.noteRepo.GetByID(ctx, current)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	res.Current = note
	return res, nil
}

func (s *noteService) Count(ctx context.Context, filter domain.NoteFilter) (int64, error) {
	filter.Search = NormalizeSearch(filter.Search)
	total, err := s.noteRepo.Count(ctx, filter)
	if err != nil {
		return 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return total, nil
}

func (s *noteService) List(ctx context.Context, filter domain.NoteFilter, offset, limit int) ([]*domain.Note, error) {
	filter.Search = NormalizeSearch(filter.Search)
	notes, err := s.noteRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return notes, nil
}

func (s *noteService) Get(ctx context.Context, id int64) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorNoteNotFound
	}
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return note, nil
}

func (s *noteService) Save(ctx context.Context, uid int64, params *NoteSaveParams) (*domain.Note, error) {
	if uid <= 0 {
		return nil, code.ErrorNotLoggedIn
	}

	note := &domain.Note{ID: params.ID, Title: params.Title, Text: params.Text, UID: uid}
	var (
		saved *domain.Note
		err   error
	)
	if note.IsNew() {
		saved, err = s.noteRepo.Create(ctx, note)
	} else {
		saved, err = s.noteRepo.Update(ctx, note)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorNoteNotFound
	}
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	tagIDs, err := s.tagService.Resolve(ctx, params.Tags)
	if err != nil {
		return nil, err
	}
	if err := s.noteRepo.ReplaceTags(ctx, saved.ID, tagIDs); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if len(params.Files) > 0 {
		if _, err := s.fileService.Upload(ctx, saved.ID, params.Files); err != nil {
			return nil, err
		}
	}

	s.logger.Info("note saved", zap.Int64(logger.FieldNoteID, saved.ID), zap.Int64(logger.FieldUID, uid), zap.Int("tags", len(tagIDs)), zap.Int("files", len(params.Files)))
	return s.Get(ctx, saved.ID)
}

func (s *noteService) Delete(ctx context.Context, id int64) (*domain.Note, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNoteNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if err := s.fileService.Detach(ctx, id); err != nil {
		s.logger.Warn("detach note files failed", zap.Int64(logger.FieldNoteID, id), zap.Error(err))
	}
	s.logger.Info("note deleted", zap.Int64(logger.FieldNoteID, id))
	return note, nil
}
