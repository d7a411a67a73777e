package webdav

import (
	"context"
	"io"
	"os"
	"path"

	"github.com/haierkeys/fast-note-web/pkg/fileurl"
	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

// Config WebDAV 连接信息
type Config struct {
	Endpoint   string
	User       string
	Password   string
	CustomPath string
}

// WebDAV WebDAV 客户端
type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

// NewClient 创建 WebDAV 客户端实例
func NewClient(conf *Config) (*WebDAV, error) {
	c := gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password)
	return &WebDAV{Client: c, Config: conf}, nil
}

// SendFile 将文件流上传到 WebDAV 服务器
func (w *WebDAV) SendFile(ctx context.Context, fileKey string, file io.Reader, itype string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fileKey = fileurl.JoinKey(w.Config.CustomPath, fileKey)

	if err := w.Client.MkdirAll(path.Dir("/"+fileKey), 0755); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	if err := w.Client.WriteStream(fileKey, file, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	return fileKey, nil
}

func (w *WebDAV) Delete(ctx context.Context, fileKey string) error {
	fileKey = fileurl.JoinKey(w.Config.CustomPath, fileKey)
	return errors.Wrap(w.Client.Remove(fileKey), "webdav")
}
