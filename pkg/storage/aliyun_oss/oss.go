package aliyun_oss

import (
	"context"
	"io"
	"sync"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/haierkeys/fast-note-web/pkg/fileurl"
	"github.com/pkg/errors"
)

type Config struct {
	Endpoint        string
	BucketName      string
	AccessKeyID     string
	AccessKeySecret string
	CustomPath      string
}

type OSS struct {
	Client *oss.Client
	Config *Config

	mu     sync.Mutex
	bucket *oss.Bucket
}

func NewClient(conf *Config) (*OSS, error) {
	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	return &OSS{Client: client, Config: conf}, nil
}

func (p *OSS) getBucket() (*oss.Bucket, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bucket != nil {
		return p.bucket, nil
	}
	bucket, err := p.Client.Bucket(p.Config.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	p.bucket = bucket
	return bucket, nil
}

func (p *OSS) SendFile(ctx context.Context, fileKey string, file io.Reader, itype string) (string, error) {
	bucket, err := p.getBucket()
	if err != nil {
		return "", err
	}
	fileKey = fileurl.JoinKey(p.Config.CustomPath, fileKey)
	if err := bucket.PutObject(fileKey, file, oss.ContentType(itype), oss.WithContext(ctx)); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}
	return fileKey, nil
}

func (p *OSS) Delete(ctx context.Context, fileKey string) error {
	bucket, err := p.getBucket()
	if err != nil {
		return err
	}
	fileKey = fileurl.JoinKey(p.Config.CustomPath, fileKey)
	return errors.Wrap(bucket.DeleteObject(fileKey, oss.WithContext(ctx)), "aliyun_oss")
}
