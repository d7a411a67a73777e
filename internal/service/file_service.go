package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/fileurl"
	"github.com/haierkeys/fast-note-web/pkg/logger"
	"github.com/haierkeys/fast-note-web/pkg/storage"
	"github.com/haierkeys/fast-note-web/pkg/workerpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileService 定义附件业务服务接口
type FileService interface {
	// Upload stores the uploaded files and attaches them to the note, in upload order
	// Upload 存储上传的文件并关联到笔记，按上传顺序返回
	Upload(ctx context.Context, noteID int64, headers []*multipart.FileHeader) ([]*domain.File, error)

	// Detach deletes the file rows of the note and removes their blobs in the background
	// Detach 删除笔记的附件记录，并在后台删除存储中的文件
	Detach(ctx context.Context, noteID int64) error
}

type fileService struct {
	fileRepo   domain.FileRepository
	storager   storage.Storager
	storageCfg *storage.Config
	pool       *workerpool.Pool
	logger     *zap.Logger
	config     *ServiceConfig
}

// NewFileService 创建 FileService 实例，storager 为空时拒绝上传
func NewFileService(fileRepo domain.FileRepository, storager storage.Storager, storageCfg *storage.Config, pool *workerpool.Pool, logger *zap.Logger, config *ServiceConfig) FileService {
	return &fileService{
		fileRepo:   fileRepo,
		storager:   storager,
		storageCfg: storageCfg,
		pool:       pool,
		logger:     logger,
		config:     config,
	}
}

func (s *fileService) Upload(ctx context.Context, noteID int64, headers []*multipart.FileHeader) ([]*domain.File, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	if s.storager == nil {
		return nil, code.ErrorStorageDisabled
	}
	limit := s.config.uploadMaxSize()
	for _, h := range headers {
		if limit > 0 && h.Size > limit {
			return nil, code.ErrorFileTooLarge.WithDetails(h.Filename)
		}
	}

	files := make([]*domain.File, len(headers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.uploadConcurrency())
	now := time.Now()
	for i, h := range headers {
		g.Go(func() error {
			f, err := s.store(gctx, noteID, h, now)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *fileService) store(ctx context.Context, noteID int64, h *multipart.FileHeader, now time.Time) (*domain.File, error) {
	src, err := h.Open()
	if err != nil {
		return nil, code.ErrorFileUploadFailed.WithDetails(err.Error())
	}
	defer src.Close()

	contentType := h.Header.Get("Content-Type")
	key := fileurl.NewUploadKey(h.Filename, now)
	stored, err := s.storager.SendFile(ctx, key, src, contentType)
	if err != nil {
		s.logger.Error("store uploaded file failed", zap.String("name", h.Filename), zap.Error(err))
		return nil, code.ErrorFileUploadFailed.WithDetails(err.Error())
	}

	file, err := s.fileRepo.Create(ctx, &domain.File{
		NoteID:      noteID,
		Key:         key,
		Name:        h.Filename,
		ContentType: contentType,
		Size:        h.Size,
		URL:         s.storageCfg.URL(stored),
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return file, nil
}

func (s *fileService) Detach(ctx context.Context, noteID int64) error {
	removed, err := s.fileRepo.DeleteByNote(ctx, noteID)
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if s.storager == nil || s.pool == nil {
		return nil
	}
	for _, f := range removed {
		key := f.Key
		err := s.pool.SubmitAsync(context.Background(), func(ctx context.Context) error {
			return s.storager.Delete(ctx, key)
		})
		if err != nil {
			s.logger.Warn("schedule blob delete failed", zap.String(logger.FieldFileKey, key), zap.Error(err))
		}
	}
	return nil
}
