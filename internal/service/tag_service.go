package service

import (
	"context"
	"errors"
	"strings"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// TagService 定义标签业务服务接口
type TagService interface {
	// ListUsed returns tags with at least one note, by note count descending then name
	// ListUsed 返回至少有一篇笔记的标签，按数量降序、名称升序
	ListUsed(ctx context.Context) ([]*domain.Tag, error)

	// ListAll 返回全部标签，按名称排序
	ListAll(ctx context.Context) ([]*domain.Tag, error)

	// Get 根据 ID 获取标签
	Get(ctx context.Context, id int64) (*domain.Tag, error)

	// Resolve returns the ids of the named tags, creating missing tags
	// Resolve 返回标签名称对应的 ID，不存在时创建
	Resolve(ctx context.Context, names []string) ([]int64, error)
}

type tagService struct {
	tagRepo domain.TagRepository
	sf      singleflight.Group
	logger  *zap.Logger
}

// NewTagService 创建 TagService 实例
func NewTagService(tagRepo domain.TagRepository, logger *zap.Logger) TagService {
	return &tagService{tagRepo: tagRepo, logger: logger}
}

// NormalizeTagName trims the name and converts it to NFC
// NormalizeTagName 去除空白并转换为 NFC
func NormalizeTagName(name string) string {
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}

// SplitTagNames splits a comma separated list of tag names
// SplitTagNames 拆分逗号分隔的标签名称
func SplitTagNames(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := NormalizeTagName(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func (s *tagService) ListUsed(ctx context.Context) ([]*domain.Tag, error) {
	v, err, _ := s.sf.Do("tags:used", func() (any, error) {
		return s.tagRepo.ListUsed(ctx)
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return v.([]*domain.Tag), nil
}

func (s *tagService) ListAll(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.tagRepo.ListAll(ctx)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return tags, nil
}

func (s *tagService) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorTagNotFound
	}
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return tag, nil
}

func (s *tagService) Resolve(ctx context.Context, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := NormalizeTagName(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tag, err := s.tagRepo.GetOrCreate(ctx, name)
		if err != nil {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}
