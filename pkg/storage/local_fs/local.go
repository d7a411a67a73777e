package local_fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/haierkeys/fast-note-web/pkg/fileurl"
	"github.com/pkg/errors"
)

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage/uploads"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(conf *Config) (*LocalFS, error) {
	if conf == nil || conf.SavePath == "" {
		return nil, errors.New("local_fs: save path is empty")
	}
	return &LocalFS{Config: conf}, nil
}

func (p *LocalFS) path(fileKey string) string {
	return filepath.Join(p.Config.SavePath, filepath.FromSlash(fileurl.JoinKey(p.Config.CustomPath, fileKey)))
}

// SendFile 保存文件到本地目录，返回存储键
func (p *LocalFS) SendFile(ctx context.Context, fileKey string, file io.Reader, itype string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst := p.path(fileKey)
	if err := fileurl.CreatePath(dst, 0754); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	defer out.Close()

	if _, err = io.Copy(out, file); err != nil {
		_ = os.Remove(dst)
		return "", errors.Wrap(err, "local_fs")
	}
	return fileurl.JoinKey(p.Config.CustomPath, fileKey), nil
}

func (p *LocalFS) Delete(ctx context.Context, fileKey string) error {
	dst := p.path(fileKey)
	if fileurl.IsExist(dst) {
		return os.Remove(dst)
	}
	return nil
}
