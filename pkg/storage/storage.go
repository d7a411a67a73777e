// Package storage stores note attachments on a local directory or a remote object store
// Package storage 将笔记附件保存到本地目录或远程对象存储
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/storage/aliyun_oss"
	"github.com/haierkeys/fast-note-web/pkg/storage/aws_s3"
	"github.com/haierkeys/fast-note-web/pkg/storage/local_fs"
	"github.com/haierkeys/fast-note-web/pkg/storage/webdav"
	"go.uber.org/zap"
)

type Type = string

const OSS Type = "oss"
const R2 Type = "r2"
const S3 Type = "s3"
const LOCAL Type = "localfs"
const MinIO Type = "minio"
const WebDAV Type = "webdav"

var StorageTypeMap = map[Type]bool{
	OSS:    true,
	R2:     true,
	S3:     true,
	LOCAL:  true,
	MinIO:  true,
	WebDAV: true,
}

// Config Unified storage configuration
type Config struct {
	Type      Type   `yaml:"type" default:"localfs"`
	IsEnabled bool   `yaml:"is-enable" default:"true"`
	PublicURL string `yaml:"public-url"`

	CustomPath string `yaml:"custom-path"`

	// Cloud Storage (S3/OSS/MinIO/R2)
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	AccountID       string `yaml:"account-id"` // Cloudflare R2

	// WebDAV
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// Local FS
	SavePath       string `yaml:"save-path" default:"storage/uploads"`
	HttpfsIsEnable bool   `yaml:"httpfs-is-enable" default:"true"`
}

// Storager 附件存储接口
type Storager interface {
	// SendFile stores file under fileKey and returns the final key (custom path included)
	SendFile(ctx context.Context, fileKey string, file io.Reader, cType string) (string, error)
	Delete(ctx context.Context, fileKey string) error
}

// NewClient 按配置类型创建存储客户端
func NewClient(ctx context.Context, config *Config, logger *zap.Logger) (Storager, error) {
	if config == nil || !StorageTypeMap[config.Type] {
		return nil, code.ErrorInvalidStorageType
	}
	if !config.IsEnabled {
		return nil, code.ErrorStorageDisabled
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	switch config.Type {
	case LOCAL:
		return local_fs.NewClient(&local_fs.Config{
			SavePath:   config.SavePath,
			CustomPath: config.CustomPath,
		})
	case OSS:
		return aliyun_oss.NewClient(&aliyun_oss.Config{
			Endpoint:        config.Endpoint,
			BucketName:      config.BucketName,
			AccessKeyID:     config.AccessKeyID,
			AccessKeySecret: config.AccessKeySecret,
			CustomPath:      config.CustomPath,
		})
	case WebDAV:
		return webdav.NewClient(&webdav.Config{
			Endpoint:   config.Endpoint,
			User:       config.User,
			Password:   config.Password,
			CustomPath: config.CustomPath,
		})
	}

	s3Config := &aws_s3.Config{
		Endpoint:        config.Endpoint,
		Region:          config.Region,
		BucketName:      config.BucketName,
		AccessKeyID:     config.AccessKeyID,
		AccessKeySecret: config.AccessKeySecret,
		CustomPath:      config.CustomPath,
	}
	switch config.Type {
	case MinIO:
		s3Config.UsePathStyle = true
	case R2:
		s3Config.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", config.AccountID)
		s3Config.Region = "auto"
	}
	return aws_s3.NewClient(ctx, s3Config, aws_s3.WithLogger(logger.With(zap.String("storage", config.Type))))
}

// URL returns the address a browser uses to load the stored key
// URL 返回浏览器加载存储键所用的地址
func (c *Config) URL(key string) string {
	base := strings.TrimSuffix(c.PublicURL, "/")
	if base == "" && c.Type == LOCAL {
		base = "/files"
	}
	return base + "/" + strings.TrimPrefix(key, "/")
}
